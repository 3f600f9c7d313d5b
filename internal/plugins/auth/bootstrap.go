package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"
)

// EnsureInitialUser creates a first account when the users table is empty,
// so a fresh deployment can be signed into at all. It is idempotent: with
// any account present it does nothing. The generated password is logged
// once at startup and never stored in the clear.
func EnsureInitialUser(ctx context.Context, repo UserRepository) error {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password, err := generatePassword(24)
	if err != nil {
		return fmt.Errorf("generating initial password: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	user := &User{
		Username:     "admin",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, user); err != nil {
		return fmt.Errorf("creating initial user: %w", err)
	}

	slog.Warn("initial user created; change this password after first login",
		slog.String("username", user.Username),
		slog.String("password", password),
	)

	return nil
}

// generatePassword returns a random URL-safe password of the given length.
func generatePassword(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
