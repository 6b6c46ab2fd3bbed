package models

import "time"

// DateLayout is the wire format for patient dates of birth.
const DateLayout = "2006-01-02"

// Patient represents a single patient record.
type Patient struct {
	ID          int64     `json:"id"`
	DateOfBirth string    `json:"date_of_birth"` // YYYY-MM-DD
	Diagnoses   []string  `json:"diagnoses"`
	CreatedAt   time.Time `json:"created_at"`
}
