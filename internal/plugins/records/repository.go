package records

import (
	"context"
	"database/sql"
	"fmt"
)

// PatientRepository defines the data access contract for patient records.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type PatientRepository interface {
	// SearchBySurname returns every patient whose surname matches exactly,
	// ignoring case. Returns an empty slice when nothing matches.
	SearchBySurname(ctx context.Context, surname string) ([]Patient, error)
}

// patientRepository implements PatientRepository with hand-written MySQL queries.
type patientRepository struct {
	db *sql.DB
}

// NewPatientRepository creates a new patient repository backed by the given DB pool.
func NewPatientRepository(db *sql.DB) PatientRepository {
	return &patientRepository{db: db}
}

// SearchBySurname runs a parameterized point lookup on the surname column.
// The column uses a case-insensitive collation (see the patients migration),
// so "smith" matches "Smith" without a LOWER() scan defeating the index.
func (r *patientRepository) SearchBySurname(ctx context.Context, surname string) ([]Patient, error) {
	query := `SELECT id, surname, forename, address, date_of_birth, doctor_id, diagnosis
	          FROM patients WHERE surname = ?
	          ORDER BY surname, forename`

	rows, err := r.db.QueryContext(ctx, query, surname)
	if err != nil {
		return nil, fmt.Errorf("querying patients by surname: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.Surname, &p.Forename, &p.Address,
			&p.DateOfBirth, &p.DoctorID, &p.Diagnosis,
		); err != nil {
			return nil, fmt.Errorf("scanning patient row: %w", err)
		}
		patients = append(patients, p)
	}

	return patients, rows.Err()
}
