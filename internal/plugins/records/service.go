package records

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pellmont/wardbook/internal/apperror"
)

// RecordService defines the business logic contract for patient lookups.
// Handlers and the login gate call these methods -- they never touch the
// repository directly.
type RecordService interface {
	SearchBySurname(ctx context.Context, surname string) ([]Patient, error)
}

// recordService implements RecordService over a PatientRepository.
type recordService struct {
	repo PatientRepository
}

// NewRecordService creates a new record service with the given repository.
func NewRecordService(repo PatientRepository) RecordService {
	return &recordService{repo: repo}
}

// SearchBySurname validates and normalizes the surname, then runs the
// repository lookup. Repository failures are converted to internal errors
// so callers never see driver error text.
func (s *recordService) SearchBySurname(ctx context.Context, surname string) ([]Patient, error) {
	surname = strings.TrimSpace(surname)
	if surname == "" {
		return nil, apperror.NewValidation("surname is required")
	}

	patients, err := s.repo.SearchBySurname(ctx, surname)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("searching patients: %w", err))
	}

	slog.Debug("patient search",
		slog.String("surname", surname),
		slog.Int("matches", len(patients)),
	)

	return patients, nil
}
