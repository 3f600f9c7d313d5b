package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pellmont/wardbook/internal/apperror"
)

// bcryptCost is the work factor for new password hashes. Verification reads
// the cost out of the stored hash, so this only affects account creation.
const bcryptCost = 12

// CredentialVerifier answers one question: does this username/password pair
// identify a real account? Unknown users and wrong passwords are both a
// plain "no" -- only infrastructure faults surface as errors.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// bcryptVerifier implements CredentialVerifier against the user store.
type bcryptVerifier struct {
	repo UserRepository
}

// NewCredentialVerifier creates a verifier backed by the given repository.
func NewCredentialVerifier(repo UserRepository) CredentialVerifier {
	return &bcryptVerifier{repo: repo}
}

// Verify looks up the user and checks the password against the stored hash.
// The caller cannot distinguish a missing account from a wrong password.
func (v *bcryptVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := v.repo.FindByUsername(ctx, username)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 404 {
			return false, nil
		}
		return false, fmt.Errorf("finding user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("comparing password hash: %w", err)
	}

	return true, nil
}

// HashPassword creates a bcrypt hash for a new account's password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
