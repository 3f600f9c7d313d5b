package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pellmont/wardbook/internal/apperror"
)

type mockPatientRepository struct {
	searchBySurnameFunc func(ctx context.Context, surname string) ([]Patient, error)
}

func (m *mockPatientRepository) SearchBySurname(ctx context.Context, surname string) ([]Patient, error) {
	return m.searchBySurnameFunc(ctx, surname)
}

func TestSearchBySurname_TrimsInput(t *testing.T) {
	var got string
	repo := &mockPatientRepository{
		searchBySurnameFunc: func(ctx context.Context, surname string) ([]Patient, error) {
			got = surname
			return nil, nil
		},
	}
	service := NewRecordService(repo)

	if _, err := service.SearchBySurname(context.Background(), "  Smith  "); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "Smith" {
		t.Errorf("expected repository to receive %q, got %q", "Smith", got)
	}
}

func TestSearchBySurname_EmptyIsRejected(t *testing.T) {
	repo := &mockPatientRepository{
		searchBySurnameFunc: func(ctx context.Context, surname string) ([]Patient, error) {
			t.Fatal("repository should not be called for empty input")
			return nil, nil
		},
	}
	service := NewRecordService(repo)

	_, err := service.SearchBySurname(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected an error for empty surname")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Type != "validation_error" {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSearchBySurname_RepositoryErrorIsOpaque(t *testing.T) {
	repo := &mockPatientRepository{
		searchBySurnameFunc: func(ctx context.Context, surname string) ([]Patient, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	service := NewRecordService(repo)

	_, err := service.SearchBySurname(context.Background(), "Smith")
	if err == nil {
		t.Fatal("expected an error")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Type != "internal_error" {
		t.Errorf("expected internal_error, got %s", appErr.Type)
	}
	if appErr.Message == "dial tcp: connection refused" {
		t.Error("driver error text must not leak into the user-facing message")
	}
}

func TestSearchBySurname_ReturnsMatches(t *testing.T) {
	want := []Patient{
		{ID: 1, Surname: "Smith", Forename: "Alice", DateOfBirth: time.Date(1984, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Surname: "Smith", Forename: "Robert", DateOfBirth: time.Date(1991, 11, 20, 0, 0, 0, 0, time.UTC)},
	}
	repo := &mockPatientRepository{
		searchBySurnameFunc: func(ctx context.Context, surname string) ([]Patient, error) {
			return want, nil
		},
	}
	service := NewRecordService(repo)

	got, err := service.SearchBySurname(context.Background(), "Smith")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d patients, got %d", len(want), len(got))
	}
	if got[0].Forename != "Alice" || got[1].Forename != "Robert" {
		t.Error("unexpected result ordering")
	}
}
