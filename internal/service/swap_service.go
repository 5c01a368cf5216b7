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

// SwapService finalizes accepted swap requests. Finalization is the only
// path that marks an item swapped and the only path that creates a Swap
// record, and it is all-or-nothing: the item transition, the swap record,
// and every points transaction commit together or not at all.
type SwapService struct {
	store         repository.Store
	notifications *NotificationService
	publisher     events.Publisher
	swapReward    int64
	logger        *zap.Logger
}

// NewSwapService creates a new swap finalizer
func NewSwapService(
	store repository.Store,
	notifications *NotificationService,
	publisher events.Publisher,
	swapReward int64,
	logger *zap.Logger,
) *SwapService {
	return &SwapService{
		store:         store,
		notifications: notifications,
		publisher:     publisher,
		swapReward:    swapReward,
		logger:        logger,
	}
}

// finalizeOutcome carries state assembled inside the transaction out to
// the post-commit notification and event publishing steps.
type finalizeOutcome struct {
	swap               *model.Swap
	item               *model.Item
	debited            int64
	closedRequesterIDs []string
}

// Finalize completes an accepted swap request. The item moves from
// available to swapped, a Swap record is created, the swapper is credited
// the swap reward, and for points redemptions the swapper is debited the
// item's cost. Remaining pending requests for the item are auto-cancelled.
// Only the item owner or the requester may finalize.
func (s *SwapService) Finalize(ctx context.Context, requestID string, method model.SwapMethod, actorID string) (*model.Swap, error) {
	if !method.IsValid() {
		return nil, apperrors.Validation("invalid swap method %q", method)
	}

	var outcome finalizeOutcome
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		request, err := tx.SwapRequests().GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return apperrors.NotFound("swap request %s not found", requestID)
		}
		if request.Status != model.RequestStatusAccepted {
			return apperrors.InvalidTransition("request %s is %s, only accepted requests can be finalized", requestID, request.Status)
		}

		item, err := tx.Items().GetByID(ctx, request.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperrors.NotFound("item %s not found", request.ItemID)
		}
		if actorID != item.UserID && actorID != request.RequesterID {
			return apperrors.Forbidden("only the item owner or the requester can finalize a swap")
		}
		if item.Status == model.ItemStatusSwapped {
			return apperrors.InvalidTransition("item %s has already been swapped", item.ID)
		}
		if err := checkRequestable(ctx, tx, item, request.RequesterID); err != nil {
			return err
		}

		now := time.Now().UTC()
		if method == model.MethodPoints {
			if _, err := recordTransaction(ctx, tx, RecordInput{
				UserID:        request.RequesterID,
				Type:          model.PointsSpentRedemption,
				Amount:        -item.Points,
				Description:   fmt.Sprintf("Redeemed %q", item.Title),
				RelatedItemID: item.ID,
			}); err != nil {
				return err
			}
			outcome.debited = item.Points
		}

		ok, err := tx.Items().UpdateStatus(ctx, item.ID, model.ItemStatusAvailable, model.ItemStatusSwapped)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidTransition("item %s is no longer available", item.ID)
		}
		item.Status = model.ItemStatusSwapped

		swap := &model.Swap{
			ID:          uuid.NewString(),
			Method:      method,
			ItemID:      item.ID,
			RequestID:   request.ID,
			OwnerID:     item.UserID,
			SwapperID:   request.RequesterID,
			CompletedAt: now,
		}
		if err := tx.Swaps().Create(ctx, swap); err != nil {
			return err
		}

		if _, err := recordTransaction(ctx, tx, RecordInput{
			UserID:        request.RequesterID,
			Type:          model.PointsEarnedSwap,
			Amount:        s.swapReward,
			Description:   fmt.Sprintf("Completed swap of %q", item.Title),
			RelatedItemID: item.ID,
			RelatedSwapID: swap.ID,
		}); err != nil {
			return err
		}

		siblings, err := tx.SwapRequests().ListPendingByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		for _, sibling := range siblings {
			if sibling.ID == request.ID {
				continue
			}
			closed, err := tx.SwapRequests().UpdateStatus(ctx, sibling.ID, model.RequestStatusPending, model.RequestStatusCancelled)
			if err != nil {
				return err
			}
			if closed {
				outcome.closedRequesterIDs = append(outcome.closedRequesterIDs, sibling.RequesterID)
			}
		}

		outcome.swap = swap
		outcome.item = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCompletion(ctx, outcome)
	s.publisher.Publish(ctx, events.Event{
		Type:        events.TypeSwapCompleted,
		ItemID:      outcome.item.ID,
		RequestID:   outcome.swap.RequestID,
		SwapID:      outcome.swap.ID,
		OwnerID:     outcome.swap.OwnerID,
		RequesterID: outcome.swap.SwapperID,
		OccurredAt:  outcome.swap.CompletedAt,
	})

	return outcome.swap, nil
}

func (s *SwapService) notifyCompletion(ctx context.Context, outcome finalizeOutcome) {
	item := outcome.item
	swap := outcome.swap

	if _, err := s.notifications.Notify(ctx, NotifyInput{
		UserID:        swap.SwapperID,
		Type:          model.NotifyPointsEarned,
		Title:         "Points Earned",
		Message:       fmt.Sprintf("You earned %d points for swapping %q", s.swapReward, item.Title),
		RelatedItemID: item.ID,
	}); err != nil {
		s.logger.Warn("Failed to notify swapper", zap.String("swap_id", swap.ID), zap.Error(err))
	}

	if outcome.debited > 0 {
		if _, err := s.notifications.Notify(ctx, NotifyInput{
			UserID:        swap.SwapperID,
			Type:          model.NotifyPointsSpent,
			Title:         "Points Spent",
			Message:       fmt.Sprintf("You spent %d points redeeming %q", outcome.debited, item.Title),
			RelatedItemID: item.ID,
		}); err != nil {
			s.logger.Warn("Failed to notify swapper", zap.String("swap_id", swap.ID), zap.Error(err))
		}
	}

	for _, requesterID := range outcome.closedRequesterIDs {
		if _, err := s.notifications.Notify(ctx, NotifyInput{
			UserID:        requesterID,
			Type:          model.NotifySystem,
			Title:         "Item No Longer Available",
			Message:       fmt.Sprintf("%q has been swapped, so your pending request was closed.", item.Title),
			RelatedItemID: item.ID,
		}); err != nil {
			s.logger.Warn("Failed to notify closed requester", zap.String("swap_id", swap.ID), zap.Error(err))
		}
	}
}

// GetByRequestID retrieves the swap created for a finalized request
func (s *SwapService) GetByRequestID(ctx context.Context, requestID string) (*model.Swap, error) {
	swap, err := s.store.Swaps().GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if swap == nil {
		return nil, apperrors.NotFound("no swap exists for request %s", requestID)
	}
	return swap, nil
}

// ListByUser retrieves the swaps a user participated in, newest first
func (s *SwapService) ListByUser(ctx context.Context, userID string) ([]model.Swap, error) {
	return s.store.Swaps().ListByUser(ctx, userID)
}
