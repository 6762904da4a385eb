package service

import (
	"context"
	"errors"
	"log/slog"

	"class_portal/internal/repository"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInternal is returned when the store fails. Detail is logged
	// server-side and never crosses to the client.
	ErrInternal = errors.New("internal error")
)

// dummyReferenceHash is a fixed bcrypt hash (cost 10) used to equalize the
// work done for unknown emails: the comparison runs, its result is ignored,
// and the attempt fails the same way a wrong password does. Without it,
// "unknown email" would return measurably faster than "wrong password".
const dummyReferenceHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthResult is the outcome of a successful login: the role used to route
// the user to their dashboard. The server-stored role is authoritative.
type AuthResult struct {
	RoleID int
}

// AuthService resolves a login attempt to a role or a classified failure
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type authService struct {
	store  *CredentialStore
	repo   repository.UserRepository
	logger *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(store *CredentialStore, repo repository.UserRepository, logger *slog.Logger) AuthService {
	return &authService{store: store, repo: repo, logger: logger}
}

// Login authenticates a credential and returns the account's role. The
// plaintext password is never logged or echoed back in any error.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "login lookup failed", "error", err.Error())
		return nil, ErrInternal
	}

	if user == nil {
		// Burn a comparison so the unknown-email path costs roughly the
		// same as a wrong password, then fail identically.
		s.store.Verify(ctx, password, dummyReferenceHash)
		return nil, ErrInvalidCredentials
	}

	if !s.store.Verify(ctx, password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "login succeeded", "user_id", user.ID, "role_id", user.RoleID)
	return &AuthResult{RoleID: user.RoleID}, nil
}
