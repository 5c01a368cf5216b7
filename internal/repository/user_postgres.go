package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/model"
)

// postgresUserRepository handles database operations for users
type postgresUserRepository struct {
	q      sqlx.ExtContext
	logger *zap.Logger
}

// Create inserts a new user
func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, role, picture, location, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role,
		user.Picture, user.Location, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.Error(err))
		return err
	}
	return nil
}

// GetByID retrieves a user by ID, returning nil when absent
func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, email, name, role, picture, location, password_hash, created_at, updated_at
		FROM users WHERE id = $1`

	var user model.User
	err := sqlx.GetContext(ctx, r.q, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, returning nil when absent
func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, role, picture, location, password_hash, created_at, updated_at
		FROM users WHERE email = $1`

	var user model.User
	err := sqlx.GetContext(ctx, r.q, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// Update persists profile changes
func (r *postgresUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET name = $1, picture = $2, location = $3, updated_at = NOW()
		WHERE id = $4`

	_, err := r.q.ExecContext(ctx, query, user.Name, user.Picture, user.Location, user.ID)
	if err != nil {
		r.logger.Error("Failed to update user", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

// Count returns the number of registered users
func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		r.logger.Error("Failed to count users", zap.Error(err))
		return 0, err
	}
	return count, nil
}
