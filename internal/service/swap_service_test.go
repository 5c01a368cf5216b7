package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
)

// acceptedRequest seeds an owner, a requester with the given balance, an
// available item, and an accepted request for it.
func acceptedRequest(t *testing.T, env *testEnv, itemPoints, requesterBalance int64) (*model.User, *model.User, *model.Item, *model.SwapRequest) {
	t.Helper()
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, itemPoints)
	grantPoints(t, env.store, requester.ID, requesterBalance)

	request, err := env.requests.Create(ctx, item.ID, requester.ID, "")
	require.NoError(t, err)
	_, err = env.requests.UpdateStatus(ctx, request.ID, model.RequestStatusAccepted, owner.ID)
	require.NoError(t, err)
	return owner, requester, item, request
}

func TestFinalizeDirectSwap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, requester, item, request := acceptedRequest(t, env, 25, 30)

	swap, err := env.swaps.Finalize(ctx, request.ID, model.MethodSwap, owner.ID)
	require.NoError(t, err)
	require.Equal(t, model.MethodSwap, swap.Method)
	require.Equal(t, owner.ID, swap.OwnerID)
	require.Equal(t, requester.ID, swap.SwapperID)
	require.Equal(t, request.ID, swap.RequestID)

	updated, err := env.store.Items().GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusSwapped, updated.Status)

	// The swapper is credited the reward and never debited; 30 -> 35.
	balance, err := env.points.Balance(ctx, requester.ID)
	require.NoError(t, err)
	require.Equal(t, int64(35), balance)

	balance, err = env.points.Balance(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)
}

func TestFinalizePointsRedemption(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, requester, item, request := acceptedRequest(t, env, 25, 30)

	swap, err := env.swaps.Finalize(ctx, request.ID, model.MethodPoints, requester.ID)
	require.NoError(t, err)
	require.Equal(t, model.MethodPoints, swap.Method)

	// 30 - 25 spent + 5 earned.
	balance, err := env.points.Balance(ctx, requester.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), balance)

	balance, err = env.points.Balance(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	transactions, err := env.points.Transactions(ctx, requester.ID)
	require.NoError(t, err)
	var debit *model.PointsTransaction
	for i := range transactions {
		if transactions[i].Type == model.PointsSpentRedemption {
			debit = &transactions[i]
		}
	}
	require.NotNil(t, debit)
	require.Equal(t, int64(-25), debit.Amount)
	require.Equal(t, item.ID, debit.RelatedItemID)

	notifications, err := env.notifications.ListByUser(ctx, requester.ID)
	require.NoError(t, err)
	var spent bool
	for _, n := range notifications {
		if n.Type == model.NotifyPointsSpent {
			spent = true
		}
	}
	require.True(t, spent)
}

func TestFinalizeIsIdempotentOnRetry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, requester, _, request := acceptedRequest(t, env, 25, 30)

	_, err := env.swaps.Finalize(ctx, request.ID, model.MethodSwap, owner.ID)
	require.NoError(t, err)

	// The second attempt fails without changing any state.
	_, err = env.swaps.Finalize(ctx, request.ID, model.MethodSwap, owner.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	balance, err := env.points.Balance(ctx, requester.ID)
	require.NoError(t, err)
	require.Equal(t, int64(35), balance)

	swaps, err := env.swaps.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, swaps, 1)
}

func TestFinalizeRequiresAcceptedRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	requester := seedUser(t, env.store, "requester")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, requester.ID, 10)

	request, err := env.requests.Create(ctx, item.ID, requester.ID, "")
	require.NoError(t, err)

	_, err = env.swaps.Finalize(ctx, request.ID, model.MethodSwap, owner.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestFinalizeForbiddenForThirdParty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, _, request := acceptedRequest(t, env, 10, 10)
	stranger := seedUser(t, env.store, "stranger")

	_, err := env.swaps.Finalize(ctx, request.ID, model.MethodSwap, stranger.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestFinalizeInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, requester, item, request := acceptedRequest(t, env, 25, 30)

	// Drain the requester's balance between acceptance and finalize.
	_, err := env.points.Record(ctx, RecordInput{
		UserID: requester.ID, Type: model.PointsPenalty, Amount: -20,
	})
	require.NoError(t, err)

	_, err = env.swaps.Finalize(ctx, request.ID, model.MethodPoints, requester.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindIneligible))

	updated, err := env.store.Items().GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, model.ItemStatusAvailable, updated.Status)

	balance, err := env.points.Balance(ctx, requester.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), balance)

	balance, err = env.points.Balance(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	_, err = env.swaps.GetByRequestID(ctx, request.ID)
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestFinalizeCancelsSiblingPendingRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seedUser(t, env.store, "owner")
	first := seedUser(t, env.store, "first")
	second := seedUser(t, env.store, "second")
	item := seedItem(t, env.store, owner.ID, model.ItemStatusAvailable, 10)
	grantPoints(t, env.store, first.ID, 10)
	grantPoints(t, env.store, second.ID, 10)

	winning, err := env.requests.Create(ctx, item.ID, first.ID, "")
	require.NoError(t, err)
	losing, err := env.requests.Create(ctx, item.ID, second.ID, "")
	require.NoError(t, err)

	_, err = env.requests.UpdateStatus(ctx, winning.ID, model.RequestStatusAccepted, owner.ID)
	require.NoError(t, err)

	_, err = env.swaps.Finalize(ctx, winning.ID, model.MethodSwap, owner.ID)
	require.NoError(t, err)

	closed, err := env.requests.GetByID(ctx, losing.ID)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusCancelled, closed.Status)

	notifications, err := env.notifications.ListByUser(ctx, second.ID)
	require.NoError(t, err)
	var informed bool
	for _, n := range notifications {
		if n.Type == model.NotifySystem {
			informed = true
		}
	}
	require.True(t, informed)
}
