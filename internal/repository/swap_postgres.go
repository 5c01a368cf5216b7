package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/model"
)

// postgresSwapRepository handles database operations for completed swaps
type postgresSwapRepository struct {
	q      sqlx.ExtContext
	logger *zap.Logger
}

// Create inserts the immutable swap record
func (r *postgresSwapRepository) Create(ctx context.Context, swap *model.Swap) error {
	query := `
		INSERT INTO swaps (id, method, item_id, request_id, owner_id, swapper_id, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.q.ExecContext(ctx, query,
		swap.ID, swap.Method, swap.ItemID, swap.RequestID,
		swap.OwnerID, swap.SwapperID, swap.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create swap", zap.Error(err))
		return err
	}
	return nil
}

// GetByRequestID retrieves the swap finalized from a request, nil when absent
func (r *postgresSwapRepository) GetByRequestID(ctx context.Context, requestID string) (*model.Swap, error) {
	query := `
		SELECT id, method, item_id, request_id, owner_id, swapper_id, completed_at
		FROM swaps WHERE request_id = $1`

	var swap model.Swap
	err := sqlx.GetContext(ctx, r.q, &swap, query, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get swap by request", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	return &swap, nil
}

// ListByUser retrieves swaps where the user was owner or swapper, newest first
func (r *postgresSwapRepository) ListByUser(ctx context.Context, userID string) ([]model.Swap, error) {
	query := `
		SELECT id, method, item_id, request_id, owner_id, swapper_id, completed_at
		FROM swaps WHERE owner_id = $1 OR swapper_id = $1
		ORDER BY completed_at DESC`

	var swaps []model.Swap
	if err := sqlx.SelectContext(ctx, r.q, &swaps, query, userID); err != nil {
		r.logger.Error("Failed to list swaps", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return swaps, nil
}

// Count returns the total number of completed swaps
func (r *postgresSwapRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM swaps`); err != nil {
		r.logger.Error("Failed to count swaps", zap.Error(err))
		return 0, err
	}
	return count, nil
}
