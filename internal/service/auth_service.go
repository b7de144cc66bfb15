package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util/errorutil"
)

// AuthService coordinates login, guest sessions and the admin bootstrap.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	adminUser  string
	adminPass  string
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		adminUser:  cfg.Auth.AdminUsername,
		adminPass:  cfg.Auth.AdminPassword,
		logger:     logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// BootstrapAdmin creates the default administrator account if it does not
// exist. Idempotent: an existing row or a unique violation from a concurrent
// boot both count as success.
func (s *AuthService) BootstrapAdmin(ctx context.Context) error {
	if _, err := s.users.GetByUsername(ctx, s.adminUser); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(s.adminPass, s.bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     s.adminUser,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil
		}
		return err
	}

	s.logger.Info("default admin account created", zap.String("username", s.adminUser))
	return nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// GuestSession issues a low-trust session without any credential check.
// Guests may submit tickets and follow their own thread, nothing more.
func (s *AuthService) GuestSession() (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(domain.GuestDisplayName, domain.RoleGuest)
}
