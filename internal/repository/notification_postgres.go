package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/model"
)

// postgresNotificationRepository handles database operations for notifications
type postgresNotificationRepository struct {
	q      sqlx.ExtContext
	logger *zap.Logger
}

const notificationColumns = `id, user_id, type, title, message, is_read,
	related_item_id, related_swap_request_id, created_at`

// Insert creates a notification
func (r *postgresNotificationRepository) Insert(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, is_read,
			related_item_id, related_swap_request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q.ExecContext(ctx, query,
		notification.ID, notification.UserID, notification.Type, notification.Title,
		notification.Message, notification.IsRead, notification.RelatedItemID,
		notification.RelatedSwapRequestID, notification.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert notification", zap.Error(err))
		return err
	}
	return nil
}

// GetByID retrieves a notification, returning nil when absent
func (r *postgresNotificationRepository) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var notification model.Notification
	err := sqlx.GetContext(ctx, r.q, &notification, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get notification", zap.String("notification_id", id), zap.Error(err))
		return nil, err
	}
	return &notification, nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *postgresNotificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 ORDER BY created_at DESC`

	var notifications []model.Notification
	if err := sqlx.SelectContext(ctx, r.q, &notifications, query, userID); err != nil {
		r.logger.Error("Failed to list notifications", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for a user
func (r *postgresNotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, userID); err != nil {
		r.logger.Error("Failed to count unread notifications", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

// MarkRead marks one notification read, reporting whether it existed
func (r *postgresNotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to mark notification as read", zap.String("notification_id", id), zap.Error(err))
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// MarkAllRead marks all of a user's notifications read, returning the count
func (r *postgresNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		r.logger.Error("Failed to mark all notifications as read", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Delete removes a notification, reporting whether it existed
func (r *postgresNotificationRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete notification", zap.String("notification_id", id), zap.Error(err))
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
