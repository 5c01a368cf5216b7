package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

// NotificationService creates and manages user notifications. Every state
// transition relevant to a user goes through Notify.
type NotificationService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(store repository.Store, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		logger: logger,
	}
}

// NotifyInput carries the fields for one notification
type NotifyInput struct {
	UserID               string
	Type                 model.NotificationType
	Title                string
	Message              string
	RelatedItemID        string
	RelatedSwapRequestID string
}

// Notify creates a notification for a user
func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) (*model.Notification, error) {
	if input.UserID == "" {
		return nil, apperrors.Validation("notification recipient is required")
	}
	if !input.Type.IsValid() {
		return nil, apperrors.Validation("unknown notification type %q", input.Type)
	}

	user, err := s.store.Users().GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", input.UserID)
	}

	notification := &model.Notification{
		ID:                   uuid.NewString(),
		UserID:               input.UserID,
		Type:                 input.Type,
		Title:                input.Title,
		Message:              input.Message,
		RelatedItemID:        input.RelatedItemID,
		RelatedSwapRequestID: input.RelatedSwapRequestID,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.store.Notifications().Insert(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// ListByUser retrieves a user's notifications, newest first
func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.store.Notifications().ListByUser(ctx, userID)
}

// UnreadCount retrieves the count of unread notifications for a user
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.Notifications().UnreadCount(ctx, userID)
}

// MarkAsRead marks a notification as read. Marking an already-read or
// missing notification is a no-op success.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID string) error {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return err
	}
	if _, err := s.store.Notifications().MarkRead(ctx, id); err != nil {
		return err
	}
	return nil
}

// MarkAllAsRead marks all of a user's notifications as read, returning the
// number of notifications updated
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return s.store.Notifications().MarkAllRead(ctx, userID)
}

// Delete removes a notification. Deleting a missing notification is a
// no-op success.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.checkOwner(ctx, id, userID); err != nil {
		return err
	}
	if _, err := s.store.Notifications().Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

func (s *NotificationService) checkOwner(ctx context.Context, id, userID string) error {
	notification, err := s.store.Notifications().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification != nil && notification.UserID != userID {
		return apperrors.Forbidden("notification belongs to another user")
	}
	return nil
}
