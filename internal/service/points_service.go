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

// PointsService is the append-only points ledger. A balance is always the
// sum of a user's transactions; it is never stored as a mutable field.
type PointsService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewPointsService creates a new points ledger service
func NewPointsService(store repository.Store, logger *zap.Logger) *PointsService {
	return &PointsService{
		store:  store,
		logger: logger,
	}
}

// Balance derives a user's point balance; an absent user has balance 0
func (s *PointsService) Balance(ctx context.Context, userID string) (int64, error) {
	return s.store.Points().SumByUser(ctx, userID)
}

// RecordInput carries the fields for one ledger entry
type RecordInput struct {
	UserID        string
	Type          model.PointsTransactionType
	Amount        int64
	Description   string
	RelatedItemID string
	RelatedSwapID string
}

// Record appends an immutable ledger entry. Non-negativity of the resulting
// balance is a caller concern: eligibility is checked before any debit is
// posted, not here.
func (s *PointsService) Record(ctx context.Context, input RecordInput) (*model.PointsTransaction, error) {
	return recordTransaction(ctx, s.store, input)
}

// Transactions retrieves a user's ledger entries, newest first
func (s *PointsService) Transactions(ctx context.Context, userID string) ([]model.PointsTransaction, error) {
	return s.store.Points().ListByUser(ctx, userID)
}

// recordTransaction validates and appends a ledger entry against the given
// store view, so it can run both standalone and inside a transaction.
func recordTransaction(ctx context.Context, store repository.Store, input RecordInput) (*model.PointsTransaction, error) {
	if input.UserID == "" {
		return nil, apperrors.Validation("transaction user is required")
	}
	if !input.Type.IsValid() {
		return nil, apperrors.Validation("unknown transaction type %q", input.Type)
	}
	if input.Amount == 0 {
		return nil, apperrors.Validation("transaction amount must be non-zero")
	}

	transaction := &model.PointsTransaction{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		Type:          input.Type,
		Amount:        input.Amount,
		Description:   input.Description,
		RelatedItemID: input.RelatedItemID,
		RelatedSwapID: input.RelatedSwapID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := store.Points().Insert(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}
