package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
)

func TestGateRejectsSelfSwap(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.store, "owner")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, owner.ID, 100)

	err := env.eligibility.CheckRequestable(context.Background(), item, owner.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindIneligible))
}

func TestGateRejectsUnavailableItem(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	grantPoints(t, env.store, requester.ID, 100)

	for _, status := range []model.ItemStatus{
		model.ItemStatusPending, model.ItemStatusSwapped, model.ItemStatusRejected,
	} {
		item := seedItem(t, env.store, owner.ID, status, 10)
		err := env.eligibility.CheckRequestable(context.Background(), item, requester.ID)
		require.True(t, apperrors.IsKind(err, apperrors.KindIneligible), "status %s", status)
	}
}

func TestGateRejectsInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 25)
	grantPoints(t, env.store, requester.ID, 24)

	err := env.eligibility.CheckRequestable(context.Background(), item, requester.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindIneligible))
	require.Contains(t, err.Error(), "insufficient points")
}

func TestGateAcceptsEligibleRequester(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 25)
	grantPoints(t, env.store, requester.ID, 25)

	require.NoError(t, env.eligibility.CheckRequestable(context.Background(), item, requester.ID))
}
