package api

import (
	"fmt"
	"time"

	"github.com/clinicbase/patients-be/internal/models"
	"github.com/clinicbase/patients-be/internal/services"
)

// In-memory stand-ins for the SQL-backed services, used to drive the
// router end to end.

type fakeUserService struct {
	users     map[string]models.User // keyed by username
	passwords map[string]string
	nextID    int
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{
		users:     make(map[string]models.User),
		passwords: make(map[string]string),
	}
}

func (f *fakeUserService) Authenticate(username, password string) (models.User, error) {
	user, ok := f.users[username]
	if !ok || f.passwords[username] != password {
		return models.User{}, services.ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeUserService) GetUserByID(id string) (models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, services.ErrUserNotFound
}

func (f *fakeUserService) CreateUser(username, password string, role models.Role) (models.User, error) {
	f.nextID++
	user := models.User{
		ID:        fmt.Sprintf("u-%d", f.nextID),
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	f.users[username] = user
	f.passwords[username] = password
	return user, nil
}

func (f *fakeUserService) EnsureUser(username, password string, role models.Role) error {
	if _, ok := f.users[username]; ok {
		return nil
	}
	_, err := f.CreateUser(username, password, role)
	return err
}

type fakePatientService struct {
	nextID   int64
	patients map[int64]models.Patient
	order    []int64

	// calls counts repository invocations, so tests can assert that a
	// rejected request never reached the store.
	calls int
}

func newFakePatientService() *fakePatientService {
	return &fakePatientService{patients: make(map[int64]models.Patient)}
}

func (f *fakePatientService) ListPatients() ([]models.Patient, error) {
	f.calls++
	out := []models.Patient{}
	for _, id := range f.order {
		out = append(out, f.patients[id])
	}
	return out, nil
}

func (f *fakePatientService) GetPatientByID(id int64) (models.Patient, error) {
	f.calls++
	patient, ok := f.patients[id]
	if !ok {
		return models.Patient{}, services.ErrPatientNotFound
	}
	return patient, nil
}

func (f *fakePatientService) CreatePatient(dateOfBirth string, diagnoses []string) (models.Patient, error) {
	f.calls++
	if diagnoses == nil {
		diagnoses = []string{}
	}
	f.nextID++
	patient := models.Patient{
		ID:          f.nextID,
		DateOfBirth: dateOfBirth,
		Diagnoses:   diagnoses,
		CreatedAt:   time.Now().UTC(),
	}
	f.patients[patient.ID] = patient
	f.order = append(f.order, patient.ID)
	return patient, nil
}

func (f *fakePatientService) UpdatePatient(id int64, dateOfBirth string, diagnoses []string) (models.Patient, error) {
	f.calls++
	patient, ok := f.patients[id]
	if !ok {
		return models.Patient{}, services.ErrPatientNotFound
	}
	if diagnoses == nil {
		diagnoses = []string{}
	}
	patient.DateOfBirth = dateOfBirth
	patient.Diagnoses = diagnoses
	f.patients[id] = patient
	return patient, nil
}

func (f *fakePatientService) DeletePatient(id int64) error {
	f.calls++
	if _, ok := f.patients[id]; !ok {
		return services.ErrPatientNotFound
	}
	delete(f.patients, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeEventService struct {
	events []models.AuditEvent
}

func (f *fakeEventService) Record(action, actor, message string, patientID *int64) error {
	f.events = append(f.events, models.AuditEvent{
		ID:        fmt.Sprintf("e-%d", len(f.events)+1),
		Action:    action,
		Actor:     actor,
		Message:   message,
		PatientID: patientID,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (f *fakeEventService) GetRecentEvents(limit int) ([]models.AuditEvent, error) {
	out := []models.AuditEvent{}
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.events[i])
	}
	return out, nil
}

func (f *fakeEventService) PruneOlderThan(cutoff time.Time) (int64, error) {
	kept := f.events[:0]
	var pruned int64
	for _, event := range f.events {
		if event.CreatedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, event)
	}
	f.events = kept
	return pruned, nil
}
