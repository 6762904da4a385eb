package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"class_portal/internal/model"
	"class_portal/internal/repository"
	"class_portal/internal/utils"

	"github.com/google/uuid"
)

const minPasswordLength = 8

// emailPattern accepts the basic local@domain.tld shape. Anything fancier
// is left to a confirmation email, which this service does not send.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrEmailTaken is returned when the normalized email already belongs to
// another account.
var ErrEmailTaken = errors.New("email address is already registered")

// ValidationError reports a malformed field on create/update. These occur
// before any credential is at risk, so field-level detail is safe to
// surface to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UserChanges carries a partial update. Nil fields are left untouched.
type UserChanges struct {
	Name     *string
	Email    *string
	Password *string
}

// CredentialStore owns user records and their hashed credentials. Passwords
// are hashed exactly once per change, as an explicit step of Create/Update,
// and are never persisted or logged in plaintext.
type CredentialStore struct {
	repo   repository.UserRepository
	hasher *utils.PasswordHasher
}

// NewCredentialStore creates a CredentialStore backed by the given
// repository and hasher.
func NewCredentialStore(repo repository.UserRepository, hasher *utils.PasswordHasher) *CredentialStore {
	return &CredentialStore{repo: repo, hasher: hasher}
}

// NormalizeEmail folds an email address to its stored form: trimmed and
// lowercased. Lookups and uniqueness both operate on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create validates the input, hashes the password and persists a new user.
// The email is normalized before validation and storage. A duplicate
// normalized email fails with ErrEmailTaken.
func (s *CredentialStore) Create(ctx context.Context, name, email, password string, roleID int) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if err := validateUserInput(name, email, roleID); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

// Update applies a partial change set to an existing user. The password
// hash is recomputed only when a password is present in the changes and
// does not verify against the stored hash; every other update carries the
// stored hash over unchanged. CreatedAt is never rewritten.
func (s *CredentialStore) Update(ctx context.Context, user *model.User, changes UserChanges) (*model.User, error) {
	updated := *user

	if changes.Name != nil {
		updated.Name = strings.TrimSpace(*changes.Name)
	}
	if changes.Email != nil {
		updated.Email = NormalizeEmail(*changes.Email)
	}
	if err := validateUserInput(updated.Name, updated.Email, updated.RoleID); err != nil {
		return nil, err
	}

	if changes.Password != nil && !s.hasher.Check(ctx, *changes.Password, user.PasswordHash) {
		if err := validatePassword(*changes.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(ctx, *changes.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user in repository: %w", err)
	}
	return &updated, nil
}

// Verify compares a plaintext password against a stored hash.
func (s *CredentialStore) Verify(ctx context.Context, password, storedHash string) bool {
	return s.hasher.Check(ctx, password, storedHash)
}

func validateUserInput(name, email string, roleID int) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Field: "email", Message: "invalid email address format"}
	}
	if !model.ValidRole(roleID) {
		return &ValidationError{Field: "role_id", Message: "unknown role"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		}
	}
	return nil
}
