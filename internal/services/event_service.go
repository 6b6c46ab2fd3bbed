package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbase/patients-be/internal/models"
	ws "github.com/clinicbase/patients-be/internal/websocket"
)

// EventServiceProvider defines the interface for the audit trail.
type EventServiceProvider interface {
	Record(action, actor, message string, patientID *int64) error
	GetRecentEvents(limit int) ([]models.AuditEvent, error)
	PruneOlderThan(cutoff time.Time) (int64, error)
}

// EventService records write actions against the patient store and
// pushes them to connected websocket clients.
type EventService struct {
	db  *sql.DB
	hub *ws.Hub
}

// NewEventService creates a new EventService. hub may be nil when no
// live feed is wanted.
func NewEventService(db *sql.DB, hub *ws.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// Record logs a new audit event to the database and broadcasts it.
func (s *EventService) Record(action, actor, message string, patientID *int64) error {
	event := models.AuditEvent{
		ID:        uuid.New().String(),
		Action:    action,
		Actor:     actor,
		Message:   message,
		PatientID: patientID,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO audit_events (id, action, actor, message, patient_id, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(event.ID, event.Action, event.Actor, event.Message, event.PatientID, event.CreatedAt); err != nil {
		return err
	}

	if s.hub != nil {
		if payload, err := json.Marshal(ws.Message{Action: "audit.event", Payload: event}); err == nil {
			s.hub.Broadcast <- payload
		}
	}
	return nil
}

// GetRecentEvents retrieves the most recent audit events.
func (s *EventService) GetRecentEvents(limit int) ([]models.AuditEvent, error) {
	rows, err := s.db.Query("SELECT id, action, actor, message, patient_id, created_at FROM audit_events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.AuditEvent{}
	for rows.Next() {
		var event models.AuditEvent
		if err := rows.Scan(&event.ID, &event.Action, &event.Actor, &event.Message, &event.PatientID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneOlderThan deletes audit events created before the cutoff and
// reports how many were removed.
func (s *EventService) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM audit_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
