package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pellmont/wardbook/internal/apperror"
)

func newRedisStore(t *testing.T) (SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionStore(client, time.Hour), mr
}

func TestRedisSessionStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	sess := NewSession()
	sess.FailureCount = 2
	sess.PendingChallenge = "K9pQ2z"
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.FailureCount != 2 || got.PendingChallenge != "K9pQ2z" {
		t.Errorf("session did not round-trip: %+v", got)
	}
}

func TestRedisSessionStore_MissingIsNotFound(t *testing.T) {
	store, _ := newRedisStore(t)

	_, err := store.Get(context.Background(), "nope")
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 404 {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRedisSessionStore_EntriesExpire(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	sess := NewSession()
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := store.Get(ctx, sess.ID); err == nil {
		t.Error("expected expired session to be gone")
	}
}

func TestRedisSessionStore_Delete(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	sess := NewSession()
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); err == nil {
		t.Error("expected deleted session to be gone")
	}
}

func TestMemorySessionStore_RoundTripAndDelete(t *testing.T) {
	store := NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	sess := NewSession()
	sess.FailureCount = 1
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.FailureCount != 1 {
		t.Errorf("expected failure count 1, got %d", got.FailureCount)
	}

	// Mutating the returned copy must not leak into the store.
	got.FailureCount = 99
	again, _ := store.Get(ctx, sess.ID)
	if again.FailureCount != 1 {
		t.Error("store must hand out copies, not shared state")
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); err == nil {
		t.Error("expected deleted session to be gone")
	}
}

func TestMemorySessionStore_LazyExpiry(t *testing.T) {
	store := NewMemorySessionStore(-time.Second)
	ctx := context.Background()

	sess := NewSession()
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); err == nil {
		t.Error("expected already-expired session to be dropped on read")
	}
}
