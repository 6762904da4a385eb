package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	password := "password123"
	hashedPassword, err := h.Hash(ctx, password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
}

func TestHashPassword_FreshSaltPerHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	first, err := h.Hash(ctx, "password123")
	assert.NoError(t, err)
	second, err := h.Hash(ctx, "password123")
	assert.NoError(t, err)

	// Same password, different salt, different stored value.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Check(ctx, "password123", first))
	assert.True(t, h.Check(ctx, "password123", second))
}

func TestCheckPassword(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hashedPassword, _ := h.Hash(ctx, "password123")

	assert.True(t, h.Check(ctx, "password123", hashedPassword))
	assert.False(t, h.Check(ctx, "wrongpassword", hashedPassword))
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	assert.False(t, h.Check(context.Background(), "password123", "invalidhash"))
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(0, 1).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99, 1).Cost())
	assert.Equal(t, DefaultHashCost, NewPasswordHasher(DefaultHashCost, 1).Cost())
}

func TestHashPassword_CanceledContext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "password123")
	assert.Error(t, err)
}
