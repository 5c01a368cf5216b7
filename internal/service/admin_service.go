package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

// AdminService covers the moderation surface: listing approval and
// rejection plus platform statistics.
type AdminService struct {
	store         repository.Store
	notifications *NotificationService
	logger        *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(store repository.Store, notifications *NotificationService, logger *zap.Logger) *AdminService {
	return &AdminService{
		store:         store,
		notifications: notifications,
		logger:        logger,
	}
}

// Stats aggregates platform counters
func (s *AdminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	users, err := s.store.Users().Count(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Items().Count(ctx)
	if err != nil {
		return nil, err
	}
	swaps, err := s.store.Swaps().Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.Items().CountByStatus(ctx, model.ItemStatusPending)
	if err != nil {
		return nil, err
	}
	issued, err := s.store.Points().SumByTypes(ctx, model.PointsEarnedListing, model.PointsEarnedSwap)
	if err != nil {
		return nil, err
	}

	return &model.AdminStats{
		TotalUsers:        int64(users),
		TotalItems:        int64(items),
		TotalSwaps:        int64(swaps),
		PendingApprovals:  int64(pending),
		TotalPointsIssued: issued,
	}, nil
}

// ApproveItem moves a pending listing to available and tells the owner
func (s *AdminService) ApproveItem(ctx context.Context, itemID string) (*model.Item, error) {
	return s.moderate(ctx, itemID, model.ItemStatusAvailable,
		model.NotifyItemApproved, "Item Approved", "Your item %q was approved and is now live!")
}

// RejectItem moves a pending listing to rejected and tells the owner
func (s *AdminService) RejectItem(ctx context.Context, itemID string) (*model.Item, error) {
	return s.moderate(ctx, itemID, model.ItemStatusRejected,
		model.NotifyItemRejected, "Item Rejected", "Your item %q was rejected by moderation.")
}

func (s *AdminService) moderate(ctx context.Context, itemID string, to model.ItemStatus, notifType model.NotificationType, title, format string) (*model.Item, error) {
	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("item %s not found", itemID)
	}
	if !item.Status.CanTransitionTo(to) {
		return nil, apperrors.InvalidTransition("item %s is %s and cannot become %s", itemID, item.Status, to)
	}

	ok, err := s.store.Items().UpdateStatus(ctx, itemID, item.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidTransition("item %s changed state concurrently", itemID)
	}
	item.Status = to

	if _, err := s.notifications.Notify(ctx, NotifyInput{
		UserID:        item.UserID,
		Type:          notifType,
		Title:         title,
		Message:       fmt.Sprintf(format, item.Title),
		RelatedItemID: item.ID,
	}); err != nil {
		s.logger.Warn("Failed to notify item owner", zap.String("item_id", itemID), zap.Error(err))
	}

	s.logger.Info("Item moderated", zap.String("item_id", itemID), zap.String("status", string(to)))
	return item, nil
}

// DeleteItem removes a listing on behalf of moderation
func (s *AdminService) DeleteItem(ctx context.Context, itemID string) error {
	deleted, err := s.store.Items().Delete(ctx, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("item %s not found", itemID)
	}
	s.logger.Info("Item removed by admin", zap.String("item_id", itemID))
	return nil
}
