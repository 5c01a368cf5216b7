package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
)

func TestCreateRequestNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, requester.ID, 10)

	request, err := env.requests.Create(ctx, item.ID, requester.ID, "love this jacket")
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusPending, request.Status)
	require.Equal(t, requester.ID, request.RequesterID)

	notifications, err := env.notifications.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, model.NotifySwapRequest, notifications[0].Type)
	require.Equal(t, "New Swap Request", notifications[0].Title)
	require.Contains(t, notifications[0].Message, requester.Name)
	require.Contains(t, notifications[0].Message, item.Title)
}

func TestCreateRequestUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	requester := seedUser(t, env.store, "requester")

	_, err := env.requests.Create(context.Background(), "missing", requester.ID, "")
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateRequestDuplicatePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, requester.ID, 10)

	_, err := env.requests.Create(ctx, item.ID, requester.ID, "")
	require.NoError(t, err)

	_, err = env.requests.Create(ctx, item.ID, requester.ID, "")
	require.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestUpdateStatusActorRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, requester.ID, 10)

	request, err := env.requests.Create(ctx, item.ID, requester.ID, "")
	require.NoError(t, err)

	// A requester cannot accept their own request.
	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusAccepted, requester.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// An owner cannot cancel on the requester's behalf.
	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusCancelled, owner.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	updated, err := env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusAccepted, owner.ID)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusAccepted, updated.Status)

	notifications, err := env.notifications.ListByUser(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, model.NotifySwapAccepted, notifications[0].Type)
	require.Contains(t, notifications[0].Message, "was accepted!")
}

func TestUpdateStatusTerminalClosure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, requester.ID, 10)

	request, err := env.requests.Create(ctx, item.ID, requester.ID, "")
	require.NoError(t, err)

	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusRejected, owner.ID)
	require.NoError(t, err)

	// A terminal request admits no further transition.
	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusAccepted, owner.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusCancelled, requester.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestUpdateStatusRejectsPendingTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, requester.ID, 10)

	request, err := env.requests.Create(ctx, item.ID, requester.ID, "")
	require.NoError(t, err)

	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusPending, owner.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestListByRequesterNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	itemA := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 5)
	itemB := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 5)
	grantPoints(t, env.store, requester.ID, 10)

	first, err := env.requests.Create(ctx, itemA.ID, requester.ID, "")
	require.NoError(t, err)
	second, err := env.requests.Create(ctx, itemB.ID, requester.ID, "")
	require.NoError(t, err)

	requests, err := env.requests.ListByRequester(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	require.Equal(t, second.ID, requests[0].ID)
	require.Equal(t, first.ID, requests[1].ID)
}
