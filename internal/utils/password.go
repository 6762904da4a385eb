package utils

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultHashCost matches bcrypt's default work factor of 10.
const DefaultHashCost = bcrypt.DefaultCost

// PasswordHasher hashes and verifies passwords with bcrypt. A fresh salt is
// generated per hash and embedded in the stored value, so nothing besides
// the hash string needs to be persisted.
//
// Hashing is deliberately expensive CPU work. The hasher bounds how many
// comparisons/hashes run at once with a weighted semaphore so a burst of
// logins cannot occupy every request goroutine at the same time.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordHasher creates a PasswordHasher with the given cost factor and
// concurrency bound. Costs outside bcrypt's supported range are clamped;
// maxConcurrent < 1 falls back to 1.
func NewPasswordHasher(cost int, maxConcurrent int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Cost returns the configured bcrypt cost factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash generates a salted hash from a plaintext password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hashing canceled: %w", err)
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Check compares a plaintext password with a stored hash. The comparison is
// bcrypt's own: it re-derives the hash from the embedded salt and compares
// the full result, with no length or prefix short circuit.
func (h *PasswordHasher) Check(ctx context.Context, password, hash string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
