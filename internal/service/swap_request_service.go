package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/events"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

// SwapRequestService tracks swap proposals through their state machine:
// pending -> accepted | rejected | cancelled, all of which are terminal.
type SwapRequestService struct {
	store         repository.Store
	eligibility   *EligibilityService
	notifications *NotificationService
	publisher     events.Publisher
	logger        *zap.Logger
}

// NewSwapRequestService creates a new swap request registry
func NewSwapRequestService(
	store repository.Store,
	eligibility *EligibilityService,
	notifications *NotificationService,
	publisher events.Publisher,
	logger *zap.Logger,
) *SwapRequestService {
	return &SwapRequestService{
		store:         store,
		eligibility:   eligibility,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
	}
}

// Create opens a pending request for an item and notifies the item owner
func (s *SwapRequestService) Create(ctx context.Context, itemID, requesterID, message string) (*model.SwapRequest, error) {
	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("item %s not found", itemID)
	}

	requester, err := s.store.Users().GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, apperrors.NotFound("user %s not found", requesterID)
	}

	if err := s.eligibility.CheckRequestable(ctx, item, requesterID); err != nil {
		return nil, err
	}

	duplicate, err := s.store.SwapRequests().HasPending(ctx, itemID, requesterID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperrors.Conflict("you already have a pending request for this item")
	}

	now := time.Now().UTC()
	request := &model.SwapRequest{
		ID:          uuid.NewString(),
		Status:      model.RequestStatusPending,
		Message:     message,
		ItemID:      itemID,
		RequesterID: requesterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.SwapRequests().Create(ctx, request); err != nil {
		return nil, err
	}

	if _, err := s.notifications.Notify(ctx, NotifyInput{
		UserID:               item.UserID,
		Type:                 model.NotifySwapRequest,
		Title:                "New Swap Request",
		Message:              fmt.Sprintf("%s wants to swap for your %q", requester.Name, item.Title),
		RelatedItemID:        itemID,
		RelatedSwapRequestID: request.ID,
	}); err != nil {
		s.logger.Warn("Failed to notify item owner", zap.String("request_id", request.ID), zap.Error(err))
	}

	s.publisher.Publish(ctx, events.Event{
		Type:        events.TypeRequestCreated,
		ItemID:      itemID,
		RequestID:   request.ID,
		OwnerID:     item.UserID,
		RequesterID: requesterID,
		OccurredAt:  now,
	})

	request.Item = item
	request.Requester = requester
	return request, nil
}

// UpdateStatus transitions a pending request to accepted, rejected, or
// cancelled. Only the item owner may accept or reject; only the requester
// may cancel. Terminal requests admit no further transition.
func (s *SwapRequestService) UpdateStatus(ctx context.Context, requestID string, newStatus model.SwapRequestStatus, actorID string) (*model.SwapRequest, error) {
	if !newStatus.IsValid() || newStatus == model.RequestStatusPending {
		return nil, apperrors.Validation("invalid target status %q", newStatus)
	}

	request, err := s.store.SwapRequests().GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("swap request %s not found", requestID)
	}

	item, err := s.store.Items().GetByID(ctx, request.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("item %s not found", request.ItemID)
	}

	switch newStatus {
	case model.RequestStatusAccepted, model.RequestStatusRejected:
		if actorID != item.UserID {
			return nil, apperrors.Forbidden("only the item owner can accept or reject a request")
		}
	case model.RequestStatusCancelled:
		if actorID != request.RequesterID {
			return nil, apperrors.Forbidden("only the requester can cancel a request")
		}
	}

	ok, err := s.store.SwapRequests().UpdateStatus(ctx, requestID, model.RequestStatusPending, newStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidTransition("request %s is no longer pending", requestID)
	}

	request.Status = newStatus
	request.UpdatedAt = time.Now().UTC()

	s.notifyOutcome(ctx, request, item, newStatus)
	s.publisher.Publish(ctx, events.Event{
		Type:        eventTypeForStatus(newStatus),
		ItemID:      item.ID,
		RequestID:   request.ID,
		OwnerID:     item.UserID,
		RequesterID: request.RequesterID,
		OccurredAt:  request.UpdatedAt,
	})

	request.Item = item
	return request, nil
}

func (s *SwapRequestService) notifyOutcome(ctx context.Context, request *model.SwapRequest, item *model.Item, status model.SwapRequestStatus) {
	var notifType model.NotificationType
	var title, message string
	switch status {
	case model.RequestStatusAccepted:
		notifType = model.NotifySwapAccepted
		title = "Swap Request Accepted"
		message = fmt.Sprintf("Your swap request for %q was accepted!", item.Title)
	case model.RequestStatusRejected:
		notifType = model.NotifySwapRejected
		title = "Swap Request Rejected"
		message = fmt.Sprintf("Your swap request for %q was rejected.", item.Title)
	default:
		// Cancellation is requester-initiated; nothing to tell them.
		return
	}

	if _, err := s.notifications.Notify(ctx, NotifyInput{
		UserID:               request.RequesterID,
		Type:                 notifType,
		Title:                title,
		Message:              message,
		RelatedItemID:        request.ItemID,
		RelatedSwapRequestID: request.ID,
	}); err != nil {
		s.logger.Warn("Failed to notify requester", zap.String("request_id", request.ID), zap.Error(err))
	}
}

func eventTypeForStatus(status model.SwapRequestStatus) string {
	switch status {
	case model.RequestStatusAccepted:
		return events.TypeRequestAccepted
	case model.RequestStatusRejected:
		return events.TypeRequestRejected
	default:
		return events.TypeRequestCancelled
	}
}

// GetByID retrieves a single request
func (s *SwapRequestService) GetByID(ctx context.Context, requestID string) (*model.SwapRequest, error) {
	request, err := s.store.SwapRequests().GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("swap request %s not found", requestID)
	}
	return request, nil
}

// ListByRequester retrieves the requests a user has opened, newest first
func (s *SwapRequestService) ListByRequester(ctx context.Context, requesterID string) ([]model.SwapRequest, error) {
	return s.store.SwapRequests().ListByRequester(ctx, requesterID)
}

// ListByItem retrieves the requests targeting an item, newest first
func (s *SwapRequestService) ListByItem(ctx context.Context, itemID string) ([]model.SwapRequest, error) {
	return s.store.SwapRequests().ListByItem(ctx, itemID)
}
