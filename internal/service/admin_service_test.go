package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
)

func TestApproveItemNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusPending, 10)

	approved, err := env.admin.ApproveItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusAvailable, approved.Status)

	notifications, err := env.notifications.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, model.NotifyItemApproved, notifications[0].Type)
}

func TestRejectItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusPending, 10)

	rejected, err := env.admin.RejectItem(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusRejected, rejected.Status)

	// A rejected item cannot be approved afterwards.
	_, err = env.admin.ApproveItem(ctx, item.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestModerationUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.admin.ApproveItem(context.Background(), "missing")
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestStatsAggregatesCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	seedItem(t, env.store, owner.ID, model.ItemStatusPending, 10)
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, requester.ID, 50)

	request, err := env.requests.Create(ctx, item.ID, requester.ID, "")
	require.NoError(t, err)
	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusAccepted, owner.ID)
	require.NoError(t, err)
	_, err = env.swaps.Finalize(ctx, request.ID, model.MethodSwap, owner.ID)
	require.NoError(t, err)

	stats, err := env.admin.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalUsers)
	require.Equal(t, int64(2), stats.TotalItems)
	require.Equal(t, int64(1), stats.TotalSwaps)
	require.Equal(t, int64(1), stats.PendingApprovals)
	// Only earned credits count as issued points, not the seeded bonus.
	require.Equal(t, int64(5), stats.TotalPointsIssued)
}
