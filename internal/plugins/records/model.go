// Package records implements patient record lookup for Wardbook. Records
// are read-only reference data: the portal only searches and displays them.
// Access is gated by the auth plugin -- a lookup runs either as part of a
// successful login submission or from the authenticated search page.
package records

import "time"

// Patient is a single patient record as stored in the patients table.
type Patient struct {
	ID          int64     `json:"id"`
	Surname     string    `json:"surname"`
	Forename    string    `json:"forename"`
	Address     string    `json:"address"`
	DateOfBirth time.Time `json:"date_of_birth"`
	DoctorID    string    `json:"doctor_id"`
	Diagnosis   string    `json:"diagnosis"`
}

// BornOn formats the date of birth for display.
func (p Patient) BornOn() string {
	return p.DateOfBirth.Format("02 Jan 2006")
}
