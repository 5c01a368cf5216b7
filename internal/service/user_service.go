package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

// UserService exposes user profile operations
type UserService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store repository.Store, logger *zap.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// GetByID retrieves a user profile
func (s *UserService) GetByID(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", userID)
	}
	return user, nil
}

// UpdateProfile edits a user's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input model.ProfileUpdate) (*model.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user %s not found", userID)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		user.Name = *input.Name
	}
	if input.Picture != nil {
		user.Picture = *input.Picture
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Debug("Profile updated", zap.String("user_id", userID))
	return user, nil
}
