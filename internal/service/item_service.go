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

// ItemService manages garment listings. New listings start in pending
// until an admin approves them; approval and rejection live in the
// admin service, and the swapped transition belongs to the finalizer.
type ItemService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewItemService creates a new item service
func NewItemService(store repository.Store, logger *zap.Logger) *ItemService {
	return &ItemService{
		store:  store,
		logger: logger,
	}
}

// Create lists a new item in pending status
func (s *ItemService) Create(ctx context.Context, userID string, input model.ItemCreate) (*model.Item, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", userID)
	}

	if !input.Category.IsValid() {
		return nil, apperrors.Validation("invalid category %q", input.Category)
	}
	if !input.Type.IsValid() {
		return nil, apperrors.Validation("invalid type %q", input.Type)
	}
	if !input.Size.IsValid() {
		return nil, apperrors.Validation("invalid size %q", input.Size)
	}
	if !input.Condition.IsValid() {
		return nil, apperrors.Validation("invalid condition %q", input.Condition)
	}
	if input.Points <= 0 {
		return nil, apperrors.Validation("points must be positive")
	}

	now := time.Now().UTC()
	item := &model.Item{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Type:        input.Type,
		Size:        input.Size,
		Condition:   input.Condition,
		Tags:        input.Tags,
		Status:      model.ItemStatusPending,
		Points:      input.Points,
		Location:    input.Location,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, img := range input.Images {
		item.Images = append(item.Images, model.ItemImage{
			ID:        uuid.NewString(),
			ItemID:    item.ID,
			ImageURL:  img.ImageURL,
			PublicID:  img.PublicID,
			IsPrimary: img.IsPrimary || i == 0,
			Position:  i,
		})
	}

	if err := s.store.Items().Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Item created",
		zap.String("item_id", item.ID),
		zap.String("user_id", userID))
	return item, nil
}

// GetByID retrieves a listing with its owner attached
func (s *ItemService) GetByID(ctx context.Context, itemID string) (*model.Item, error) {
	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("item %s not found", itemID)
	}

	if owner, err := s.store.Users().GetByID(ctx, item.UserID); err == nil && owner != nil {
		item.User = owner
	}
	return item, nil
}

// Search retrieves listings matching the filter plus the total count.
// Unless the filter says otherwise, only available items are returned.
func (s *ItemService) Search(ctx context.Context, filter model.ItemFilter) ([]model.Item, int, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, apperrors.Validation("invalid status %q", *filter.Status)
	}
	if filter.Status == nil && filter.UserID == "" {
		available := model.ItemStatusAvailable
		filter.Status = &available
	}
	return s.store.Items().Search(ctx, filter)
}

// Update edits a listing. Only the owner may edit, only while the item
// is pending or available, and status is never touched here.
func (s *ItemService) Update(ctx context.Context, itemID, actorID string, input model.ItemUpdate) (*model.Item, error) {
	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NotFound("item %s not found", itemID)
	}
	if item.UserID != actorID {
		return nil, apperrors.Forbidden("only the owner can edit an item")
	}
	if item.Status.IsTerminal() {
		return nil, apperrors.InvalidTransition("item %s is %s and can no longer be edited", itemID, item.Status)
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, apperrors.Validation("invalid category %q", *input.Category)
		}
		item.Category = *input.Category
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, apperrors.Validation("invalid type %q", *input.Type)
		}
		item.Type = *input.Type
	}
	if input.Size != nil {
		if !input.Size.IsValid() {
			return nil, apperrors.Validation("invalid size %q", *input.Size)
		}
		item.Size = *input.Size
	}
	if input.Condition != nil {
		if !input.Condition.IsValid() {
			return nil, apperrors.Validation("invalid condition %q", *input.Condition)
		}
		item.Condition = *input.Condition
	}
	if input.Tags != nil {
		item.Tags = input.Tags
	}
	if input.Points != nil {
		if *input.Points <= 0 {
			return nil, apperrors.Validation("points must be positive")
		}
		item.Points = *input.Points
	}
	if input.Location != nil {
		item.Location = *input.Location
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.Items().Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a listing. Only the owner may delete, and not after
// the item has been swapped.
func (s *ItemService) Delete(ctx context.Context, itemID, actorID string) error {
	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return apperrors.NotFound("item %s not found", itemID)
	}
	if item.UserID != actorID {
		return apperrors.Forbidden("only the owner can delete an item")
	}
	if item.Status == model.ItemStatusSwapped {
		return apperrors.InvalidTransition("swapped items cannot be deleted")
	}

	deleted, err := s.store.Items().Delete(ctx, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("item %s not found", itemID)
	}

	s.logger.Info("Item deleted", zap.String("item_id", itemID), zap.String("user_id", actorID))
	return nil
}
