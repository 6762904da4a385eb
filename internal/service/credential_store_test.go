package service

import (
	"context"
	"errors"
	"testing"

	"class_portal/internal/model"
	"class_portal/internal/repository"
	"class_portal/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository keyed by normalized email.
// It enforces the same uniqueness contract the Postgres unique index does.
type fakeUserRepo struct {
	byEmail map[string]*model.User
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u := *user
	f.byEmail[user.Email] = &u
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if existing, ok := f.byEmail[user.Email]; ok && existing.ID != user.ID {
		return repository.ErrDuplicateEmail
	}
	for email, u := range f.byEmail {
		if u.ID == user.ID && email != user.Email {
			delete(f.byEmail, email)
		}
	}
	u := *user
	f.byEmail[user.Email] = &u
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.byEmail {
		if user.ID == id {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func newTestStore() (*CredentialStore, *fakeUserRepo) {
	repo := newFakeUserRepo()
	hasher := utils.NewPasswordHasher(bcrypt.MinCost, 2)
	return NewCredentialStore(repo, hasher), repo
}

func TestCredentialStore_Create(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	user, err := store.Create(ctx, "A", "Foo@Example.com", "password123", model.RoleInstructor)
	require.NoError(t, err)

	assert.Equal(t, "foo@example.com", user.Email, "email must be stored lowercased")
	assert.NotEmpty(t, user.ID)
	assert.NotZero(t, user.CreatedAt)
	assert.Equal(t, model.RoleInstructor, user.RoleID)

	// The stored value is a hash, never the plaintext.
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, store.Verify(ctx, "password123", user.PasswordHash))
	assert.False(t, store.Verify(ctx, "wrongpassword", user.PasswordHash))
}

func TestCredentialStore_Create_Validation(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	tests := []struct {
		name      string
		userName  string
		email     string
		password  string
		roleID    int
		wantField string
	}{
		{"missing name", "", "a@b.com", "password123", model.RoleParent, "name"},
		{"no at sign", "A", "not-an-email", "password123", model.RoleParent, "email"},
		{"no tld", "A", "a@b", "password123", model.RoleParent, "email"},
		{"space in email", "A", "a b@c.com", "password123", model.RoleParent, "email"},
		{"short password", "A", "a@b.com", "short", model.RoleParent, "password"},
		{"unknown role", "A", "a@b.com", "password123", 99, "role_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.userName, tt.email, tt.password, tt.roleID)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestCredentialStore_Create_DuplicateEmailCaseInsensitive(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	_, err := store.Create(ctx, "A", "Foo@Example.com", "password123", model.RoleInstructor)
	require.NoError(t, err)

	_, err = store.Create(ctx, "B", "foo@example.com", "password456", model.RoleParent)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = store.Create(ctx, "C", "FOO@EXAMPLE.COM", "password789", model.RoleParent)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCredentialStore_Update_NameOnlyKeepsHash(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	user, err := store.Create(ctx, "A", "a@b.com", "password123", model.RoleParent)
	require.NoError(t, err)

	newName := "Renamed"
	updated, err := store.Update(ctx, user, UserChanges{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash, "hash must be carried over byte-for-byte")
	assert.Equal(t, user.CreatedAt, updated.CreatedAt)
}

func TestCredentialStore_Update_SamePasswordKeepsHash(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	user, err := store.Create(ctx, "A", "a@b.com", "password123", model.RoleParent)
	require.NoError(t, err)

	same := "password123"
	updated, err := store.Update(ctx, user, UserChanges{Password: &same})
	require.NoError(t, err)

	assert.Equal(t, user.PasswordHash, updated.PasswordHash, "re-saving the same password must not re-hash")
}

func TestCredentialStore_Update_NewPasswordRehashes(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	user, err := store.Create(ctx, "A", "a@b.com", "password123", model.RoleParent)
	require.NoError(t, err)

	next := "differentpass"
	updated, err := store.Update(ctx, user, UserChanges{Password: &next})
	require.NoError(t, err)

	assert.NotEqual(t, user.PasswordHash, updated.PasswordHash)
	assert.True(t, store.Verify(ctx, "differentpass", updated.PasswordHash))
	assert.False(t, store.Verify(ctx, "password123", updated.PasswordHash))
}

func TestCredentialStore_Update_ShortNewPasswordRejected(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	user, err := store.Create(ctx, "A", "a@b.com", "password123", model.RoleParent)
	require.NoError(t, err)

	short := "short"
	_, err = store.Update(ctx, user, UserChanges{Password: &short})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
}

func TestCredentialStore_Update_EmailConflict(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	_, err := store.Create(ctx, "A", "a@b.com", "password123", model.RoleParent)
	require.NoError(t, err)
	other, err := store.Create(ctx, "B", "b@b.com", "password123", model.RoleParent)
	require.NoError(t, err)

	taken := "A@B.com"
	_, err = store.Update(ctx, other, UserChanges{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCredentialStore_Create_RepoError(t *testing.T) {
	store, repo := newTestStore()
	repo.err = errors.New("connection refused")

	_, err := store.Create(context.Background(), "A", "a@b.com", "password123", model.RoleParent)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}
