package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rewear/exchange-service/internal/apperrors"
	"github.com/rewear/exchange-service/internal/config"
	"github.com/rewear/exchange-service/internal/model"
	"github.com/rewear/exchange-service/internal/repository"
)

// AuthService handles registration, authentication and token generation
type AuthService struct {
	store  repository.Store
	cfg    *config.Config
	logger *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(store repository.Store, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input model.UserCreate) (*model.TokenResponse, error) {
	existing, err := s.store.Users().GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		Role:         model.RoleUser,
		Location:     input.Location,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	return s.tokenResponse(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, login model.UserLogin) (*model.TokenResponse, error) {
	user, err := s.store.Users().GetByEmail(ctx, login.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		s.logger.Debug("Password verification failed", zap.String("email", login.Email))
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	return s.tokenResponse(user)
}

// RefreshToken issues a fresh token pair from a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}

	userID, _ := claims["sub"].(string)
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthorized("user not found")
	}

	return s.tokenResponse(user)
}

// ValidateToken validates an access token and returns the user ID and role
func (s *AuthService) ValidateToken(tokenString string) (userID, role string, err error) {
	claims, err := s.parseToken(tokenString, "access")
	if err != nil {
		return "", "", err
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", "", apperrors.Unauthorized("invalid user ID in token")
	}
	role, _ = claims["role"].(string)
	return userID, role, nil
}

func (s *AuthService) parseToken(tokenString, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("unexpected signing method")
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != wantType {
		return nil, apperrors.Unauthorized("invalid token type")
	}
	return claims, nil
}

func (s *AuthService) tokenResponse(user *model.User) (*model.TokenResponse, error) {
	accessToken, refreshToken, expiresAt, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// generateTokens creates a new pair of access and refresh tokens
func (s *AuthService) generateTokens(user *model.User) (accessToken, refreshToken string, expiresAt time.Time, err error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.Auth.AccessTokenTTL)

	accessClaims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  accessExpiry.Unix(),
		"iat":  now.Unix(),
		"type": "access",
	}
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessToken, err = access.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", "", time.Time{}, apperrors.Internal(err)
	}

	refreshExpiry := now.Add(s.cfg.Auth.RefreshTokenTTL)
	refreshClaims := jwt.MapClaims{
		"sub":  user.ID,
		"exp":  refreshExpiry.Unix(),
		"iat":  now.Unix(),
		"type": "refresh",
	}
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshToken, err = refresh.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err))
		return "", "", time.Time{}, apperrors.Internal(err)
	}

	return accessToken, refreshToken, accessExpiry, nil
}
