package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pellmont/wardbook/internal/apperror"
)

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn         func(ctx context.Context, user *User) error
	findByUsernameFn func(ctx context.Context, username string) (*User, error)
	countUsersFn     func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) CountUsers(ctx context.Context) (int, error) {
	if m.countUsersFn != nil {
		return m.countUsersFn(ctx)
	}
	return 0, nil
}

func userWithPassword(t *testing.T, username, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &User{ID: 1, Username: username, PasswordHash: hash, CreatedAt: time.Now().UTC()}
}

func TestVerify_CorrectPassword(t *testing.T) {
	user := userWithPassword(t, "mward", "s3cret")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}
	verifier := NewCredentialVerifier(repo)

	ok, err := verifier.Verify(context.Background(), "mward", "s3cret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Error("expected the correct password to verify")
	}
}

func TestVerify_WrongPasswordIsNo(t *testing.T) {
	user := userWithPassword(t, "mward", "s3cret")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}
	verifier := NewCredentialVerifier(repo)

	ok, err := verifier.Verify(context.Background(), "mward", "wrong")
	if err != nil {
		t.Fatalf("a wrong password is a no, not an error: %v", err)
	}
	if ok {
		t.Error("expected the wrong password to be rejected")
	}
}

func TestVerify_UnknownUserIsNo(t *testing.T) {
	verifier := NewCredentialVerifier(&mockUserRepo{})

	ok, err := verifier.Verify(context.Background(), "nobody", "s3cret")
	if err != nil {
		t.Fatalf("an unknown user is a no, not an error: %v", err)
	}
	if ok {
		t.Error("expected an unknown user to be rejected")
	}
}

func TestVerify_StoreFaultIsError(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return nil, errors.New("driver: bad connection")
		},
	}
	verifier := NewCredentialVerifier(repo)

	if _, err := verifier.Verify(context.Background(), "mward", "s3cret"); err == nil {
		t.Error("expected a store fault to surface as an error")
	}
}

func TestEnsureInitialUser_SkipsWhenUsersExist(t *testing.T) {
	created := false
	repo := &mockUserRepo{
		countUsersFn: func(ctx context.Context) (int, error) { return 3, nil },
		createFn: func(ctx context.Context, user *User) error {
			created = true
			return nil
		},
	}

	if err := EnsureInitialUser(context.Background(), repo); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created {
		t.Error("must not create an account when one already exists")
	}
}

func TestEnsureInitialUser_CreatesFirstAccount(t *testing.T) {
	var got *User
	repo := &mockUserRepo{
		countUsersFn: func(ctx context.Context) (int, error) { return 0, nil },
		createFn: func(ctx context.Context, user *User) error {
			got = user
			return nil
		},
	}

	if err := EnsureInitialUser(context.Background(), repo); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil {
		t.Fatal("expected an account to be created")
	}
	if got.Username != "admin" || got.PasswordHash == "" {
		t.Errorf("unexpected initial account: %+v", got)
	}
}
