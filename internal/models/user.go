package models

import "time"

// Role classifies a user account. It is a closed set: values outside
// the constants below are never persisted or embedded in a token.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RolePatient:
		return true
	}
	return false
}

// CanManageRecords reports whether the role may list, create, update
// and delete patient records. Only doctors can.
func (r Role) CanManageRecords() bool {
	return r == RoleDoctor
}

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
