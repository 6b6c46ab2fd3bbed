package models

import "time"

// AuditEvent records a write action performed against the patient store.
type AuditEvent struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"` // e.g. "patient.create"
	Actor     string    `json:"actor"`  // username of the caller
	Message   string    `json:"message"`
	PatientID *int64    `json:"patientId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
