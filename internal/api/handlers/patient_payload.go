package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/clinicbase/patients-be/internal/models"
)

const (
	msgFieldRequired = "This field is required."
	msgBadDate       = "Must be a valid calendar date in YYYY-MM-DD format."
	msgBadDiagnoses  = "Must be a list of strings."
)

// patientInput is the write payload for patient records. Diagnoses is
// kept raw so that a non-list value fails validation with a field
// error instead of a body decode error. Unknown extra fields are
// ignored.
type patientInput struct {
	DateOfBirth *string         `json:"date_of_birth"`
	Diagnoses   json.RawMessage `json:"diagnoses"`
}

// validatedPatient carries the fields that survived validation. For
// partial payloads, absent fields stay nil/false.
type validatedPatient struct {
	DateOfBirth  *string
	Diagnoses    []string
	HasDiagnoses bool
}

// validate enforces the field constraints. With partial set, fields may
// be omitted but any field present is still validated. Returns a
// field -> messages map when anything fails.
func (p *patientInput) validate(partial bool) (validatedPatient, map[string][]string) {
	out := validatedPatient{}
	fieldErrors := map[string][]string{}

	switch {
	case p.DateOfBirth == nil:
		if !partial {
			fieldErrors["date_of_birth"] = append(fieldErrors["date_of_birth"], msgFieldRequired)
		}
	default:
		if _, err := time.Parse(models.DateLayout, *p.DateOfBirth); err != nil {
			fieldErrors["date_of_birth"] = append(fieldErrors["date_of_birth"], msgBadDate)
		} else {
			out.DateOfBirth = p.DateOfBirth
		}
	}

	switch {
	case len(p.Diagnoses) == 0:
		if !partial {
			fieldErrors["diagnoses"] = append(fieldErrors["diagnoses"], msgFieldRequired)
		}
	case bytes.Equal(bytes.TrimSpace(p.Diagnoses), []byte("null")):
		fieldErrors["diagnoses"] = append(fieldErrors["diagnoses"], msgBadDiagnoses)
	default:
		var diagnoses []string
		if err := json.Unmarshal(p.Diagnoses, &diagnoses); err != nil {
			fieldErrors["diagnoses"] = append(fieldErrors["diagnoses"], msgBadDiagnoses)
		} else {
			if diagnoses == nil {
				diagnoses = []string{}
			}
			out.Diagnoses = diagnoses
			out.HasDiagnoses = true
		}
	}

	if len(fieldErrors) > 0 {
		return validatedPatient{}, fieldErrors
	}
	return out, nil
}
