package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/model"
)

// postgresSwapRequestRepository handles database operations for swap requests
type postgresSwapRequestRepository struct {
	q      sqlx.ExtContext
	logger *zap.Logger
}

const swapRequestColumns = `id, status, message, item_id, requester_id, created_at, updated_at`

// Create inserts a new swap request
func (r *postgresSwapRequestRepository) Create(ctx context.Context, request *model.SwapRequest) error {
	query := `
		INSERT INTO swap_requests (id, status, message, item_id, requester_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.q.ExecContext(ctx, query,
		request.ID, request.Status, request.Message,
		request.ItemID, request.RequesterID, request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create swap request", zap.Error(err))
		return err
	}
	return nil
}

// GetByID retrieves a swap request, returning nil when absent
func (r *postgresSwapRequestRepository) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + ` FROM swap_requests WHERE id = $1`

	var request model.SwapRequest
	err := sqlx.GetContext(ctx, r.q, &request, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get swap request", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}
	return &request, nil
}

// ListByRequester retrieves the requester's requests, newest first
func (r *postgresSwapRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]model.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + ` FROM swap_requests
		WHERE requester_id = $1 ORDER BY created_at DESC`

	var requests []model.SwapRequest
	if err := sqlx.SelectContext(ctx, r.q, &requests, query, requesterID); err != nil {
		r.logger.Error("Failed to list swap requests by requester", zap.Error(err))
		return nil, err
	}
	return requests, nil
}

// ListByItem retrieves all requests targeting an item, newest first
func (r *postgresSwapRequestRepository) ListByItem(ctx context.Context, itemID string) ([]model.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + ` FROM swap_requests
		WHERE item_id = $1 ORDER BY created_at DESC`

	var requests []model.SwapRequest
	if err := sqlx.SelectContext(ctx, r.q, &requests, query, itemID); err != nil {
		r.logger.Error("Failed to list swap requests by item", zap.Error(err))
		return nil, err
	}
	return requests, nil
}

// ListPendingByItem retrieves the still-open requests targeting an item
func (r *postgresSwapRequestRepository) ListPendingByItem(ctx context.Context, itemID string) ([]model.SwapRequest, error) {
	query := `SELECT ` + swapRequestColumns + ` FROM swap_requests
		WHERE item_id = $1 AND status = $2 ORDER BY created_at DESC`

	var requests []model.SwapRequest
	if err := sqlx.SelectContext(ctx, r.q, &requests, query, itemID, model.RequestStatusPending); err != nil {
		r.logger.Error("Failed to list pending swap requests", zap.Error(err))
		return nil, err
	}
	return requests, nil
}

// UpdateStatus performs a compare-and-swap on the request status
func (r *postgresSwapRequestRepository) UpdateStatus(ctx context.Context, id string, from, to model.SwapRequestStatus) (bool, error) {
	query := `UPDATE swap_requests SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	res, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		r.logger.Error("Failed to update swap request status", zap.String("request_id", id), zap.Error(err))
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// HasPending reports whether the requester already has an open request for the item
func (r *postgresSwapRequestRepository) HasPending(ctx context.Context, itemID, requesterID string) (bool, error) {
	query := `SELECT COUNT(*) FROM swap_requests
		WHERE item_id = $1 AND requester_id = $2 AND status = $3`

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, itemID, requesterID, model.RequestStatusPending); err != nil {
		r.logger.Error("Failed to check pending swap requests", zap.Error(err))
		return false, err
	}
	return count > 0, nil
}
