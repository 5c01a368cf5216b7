package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/model"
)

// postgresPointsRepository handles database operations for the points ledger
type postgresPointsRepository struct {
	q      sqlx.ExtContext
	logger *zap.Logger
}

// Insert appends an immutable ledger entry
func (r *postgresPointsRepository) Insert(ctx context.Context, transaction *model.PointsTransaction) error {
	query := `
		INSERT INTO points_transactions (id, user_id, type, amount, description,
			related_item_id, related_swap_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.ExecContext(ctx, query,
		transaction.ID, transaction.UserID, transaction.Type, transaction.Amount,
		transaction.Description, transaction.RelatedItemID, transaction.RelatedSwapID,
		transaction.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert points transaction", zap.Error(err))
		return err
	}
	return nil
}

// SumByUser derives a user's balance from the ledger; absent users sum to 0
func (r *postgresPointsRepository) SumByUser(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM points_transactions WHERE user_id = $1`

	var sum int64
	if err := sqlx.GetContext(ctx, r.q, &sum, query, userID); err != nil {
		r.logger.Error("Failed to sum points", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return sum, nil
}

// ListByUser retrieves a user's ledger entries, newest first
func (r *postgresPointsRepository) ListByUser(ctx context.Context, userID string) ([]model.PointsTransaction, error) {
	query := `
		SELECT id, user_id, type, amount, description, related_item_id, related_swap_id, created_at
		FROM points_transactions WHERE user_id = $1
		ORDER BY created_at DESC`

	var transactions []model.PointsTransaction
	if err := sqlx.SelectContext(ctx, r.q, &transactions, query, userID); err != nil {
		r.logger.Error("Failed to list points transactions", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

// SumByTypes sums all entries of the given types across users
func (r *postgresPointsRepository) SumByTypes(ctx context.Context, types ...model.PointsTransactionType) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM points_transactions WHERE type = ANY($1)`

	var sum int64
	if err := sqlx.GetContext(ctx, r.q, &sum, query, pq.Array(types)); err != nil {
		r.logger.Error("Failed to sum points by type", zap.Error(err))
		return 0, err
	}
	return sum, nil
}
