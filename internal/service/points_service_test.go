package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
)

func TestBalanceIsDerivedFromTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env.store, "ava")

	balance, err := env.points.Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	_, err = env.points.Record(ctx, RecordInput{
		UserID: user.ID, Type: model.PointsEarnedListing, Amount: 10,
	})
	require.NoError(t, err)
	_, err = env.points.Record(ctx, RecordInput{
		UserID: user.ID, Type: model.PointsSpentRedemption, Amount: -4,
	})
	require.NoError(t, err)

	balance, err = env.points.Balance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(6), balance)
}

func TestBalanceForUnknownUserIsZero(t *testing.T) {
	env := newTestEnv(t)

	balance, err := env.points.Balance(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env.store, "ben")

	_, err := env.points.Record(ctx, RecordInput{Type: model.PointsBonus, Amount: 1})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = env.points.Record(ctx, RecordInput{UserID: user.ID, Type: "gift", Amount: 1})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = env.points.Record(ctx, RecordInput{UserID: user.ID, Type: model.PointsBonus, Amount: 0})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	transactions, err := env.points.Transactions(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, transactions)
}

func TestTransactionsAreNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env.store, "cara")

	first, err := env.points.Record(ctx, RecordInput{UserID: user.ID, Type: model.PointsBonus, Amount: 1})
	require.NoError(t, err)
	second, err := env.points.Record(ctx, RecordInput{UserID: user.ID, Type: model.PointsBonus, Amount: 2})
	require.NoError(t, err)

	transactions, err := env.points.Transactions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	require.Equal(t, second.ID, transactions[0].ID)
	require.Equal(t, first.ID, transactions[1].ID)
}
