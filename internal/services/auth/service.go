// Package auth implements phone-based login and JWT session validation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/models"
)

const tokenIssuer = "investsync-server"

// Service implements interfaces.AuthService.
type Service struct {
	storage     interfaces.StorageManager
	logger      *common.Logger
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// NewService creates the auth service. tokenExpiry bounds session lifetime.
func NewService(storage interfaces.StorageManager, logger *common.Logger, jwtSecret string, tokenExpiry time.Duration) *Service {
	return &Service{
		storage:     storage,
		logger:      logger,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
	}
}

// Login upserts the user keyed by phone and returns a signed session token.
// A returning user with a new display name is renamed in place.
func (s *Service) Login(ctx context.Context, phone, name string) (*models.User, string, error) {
	phone = strings.TrimSpace(phone)
	name = strings.TrimSpace(name)
	if phone == "" || name == "" {
		return nil, "", fmt.Errorf("phone and name are required: %w", models.ErrValidation)
	}

	user, err := s.storage.Users().GetByPhone(ctx, phone)
	switch {
	case err == nil:
		if user.Name != name {
			user.Name = name
			if err := s.storage.Users().Save(ctx, user); err != nil {
				return nil, "", fmt.Errorf("failed to rename user: %w", err)
			}
		}

	case errors.Is(err, models.ErrNotFound):
		user = &models.User{
			ID:       uuid.NewString(),
			Phone:    phone,
			Name:     name,
			JoinedAt: time.Now().UTC(),
		}
		if err := s.storage.Users().Save(ctx, user); err != nil {
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
		s.logger.Info().Str("user_id", user.ID).Msg("New user registered")

	default:
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate verifies the token signature and expiry, then resolves the
// embedded user id. Every failure mode maps to ErrUnauthorized so callers
// cannot distinguish a bad token from a deleted user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.validateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUnauthorized, err)
	}

	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown user", models.ErrUnauthorized)
	}
	return user, nil
}

func (s *Service) signToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": tokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenExpiry).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("missing subject")
	}
	return sub, nil
}

// Ensure Service implements AuthService
var _ interfaces.AuthService = (*Service)(nil)
