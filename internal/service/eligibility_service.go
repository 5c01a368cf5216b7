package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

// EligibilityService is the availability gate every swap must pass: no
// self-swap, the item must be available, and the requester must be able to
// afford it. It is consulted at request creation and again under the
// finalize transaction.
type EligibilityService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewEligibilityService creates a new eligibility gate
func NewEligibilityService(store repository.Store, logger *zap.Logger) *EligibilityService {
	return &EligibilityService{
		store:  store,
		logger: logger,
	}
}

// CheckRequestable reports, via a typed error, why the requester may not
// redeem the item; nil means eligible.
func (s *EligibilityService) CheckRequestable(ctx context.Context, item *model.Item, requesterID string) error {
	return checkRequestable(ctx, s.store, item, requesterID)
}

// checkRequestable runs the gate against the given store view, so the
// finalizer can re-run it inside its transaction.
func checkRequestable(ctx context.Context, store repository.Store, item *model.Item, requesterID string) error {
	if item.UserID == requesterID {
		return apperrors.Ineligible("you cannot swap for your own item")
	}
	if item.Status != model.ItemStatusAvailable {
		return apperrors.Ineligible("item %q is not available for swapping", item.Title)
	}

	balance, err := store.Points().SumByUser(ctx, requesterID)
	if err != nil {
		return err
	}
	if balance < item.Points {
		return apperrors.Ineligible("insufficient points: item costs %d, balance is %d", item.Points, balance)
	}
	return nil
}
