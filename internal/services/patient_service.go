package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/clinicbase/patients-be/internal/models"
)

// PatientServiceProvider defines the interface for the patient record
// repository.
type PatientServiceProvider interface {
	ListPatients() ([]models.Patient, error)
	GetPatientByID(id int64) (models.Patient, error)
	CreatePatient(dateOfBirth string, diagnoses []string) (models.Patient, error)
	UpdatePatient(id int64, dateOfBirth string, diagnoses []string) (models.Patient, error)
	DeletePatient(id int64) error
}

// PatientService provides persistence for patient records.
type PatientService struct {
	db *sql.DB
}

// NewPatientService creates a new PatientService.
func NewPatientService(db *sql.DB) *PatientService {
	return &PatientService{db: db}
}

// ListPatients retrieves all patient records in insertion order.
func (s *PatientService) ListPatients() ([]models.Patient, error) {
	rows, err := s.db.Query("SELECT id, date_of_birth, diagnoses_json, created_at FROM patients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := []models.Patient{}
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}
	return patients, rows.Err()
}

// GetPatientByID retrieves a single patient record by its ID.
func (s *PatientService) GetPatientByID(id int64) (models.Patient, error) {
	row := s.db.QueryRow("SELECT id, date_of_birth, diagnoses_json, created_at FROM patients WHERE id = ?", id)
	patient, err := scanPatient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Patient{}, ErrPatientNotFound
		}
		return models.Patient{}, err
	}
	return patient, nil
}

// CreatePatient inserts a new patient record and returns it with the
// generated id and server-set creation timestamp.
func (s *PatientService) CreatePatient(dateOfBirth string, diagnoses []string) (models.Patient, error) {
	diagnosesJSON, err := marshalDiagnoses(diagnoses)
	if err != nil {
		return models.Patient{}, err
	}

	stmt, err := s.db.Prepare("INSERT INTO patients(date_of_birth, diagnoses_json) VALUES(?, ?)")
	if err != nil {
		return models.Patient{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(dateOfBirth, diagnosesJSON)
	if err != nil {
		return models.Patient{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Patient{}, err
	}
	return s.GetPatientByID(id)
}

// UpdatePatient overwrites the mutable fields of an existing record.
// created_at is never touched.
func (s *PatientService) UpdatePatient(id int64, dateOfBirth string, diagnoses []string) (models.Patient, error) {
	diagnosesJSON, err := marshalDiagnoses(diagnoses)
	if err != nil {
		return models.Patient{}, err
	}

	res, err := s.db.Exec("UPDATE patients SET date_of_birth = ?, diagnoses_json = ? WHERE id = ?", dateOfBirth, diagnosesJSON, id)
	if err != nil {
		return models.Patient{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Patient{}, ErrPatientNotFound
	}
	return s.GetPatientByID(id)
}

// DeletePatient removes a patient record.
func (s *PatientService) DeletePatient(id int64) error {
	res, err := s.db.Exec("DELETE FROM patients WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPatientNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (models.Patient, error) {
	var patient models.Patient
	var diagnosesJSON string
	if err := row.Scan(&patient.ID, &patient.DateOfBirth, &diagnosesJSON, &patient.CreatedAt); err != nil {
		return models.Patient{}, err
	}
	if err := json.Unmarshal([]byte(diagnosesJSON), &patient.Diagnoses); err != nil {
		return models.Patient{}, fmt.Errorf("corrupt diagnoses for patient %d: %w", patient.ID, err)
	}
	if patient.Diagnoses == nil {
		patient.Diagnoses = []string{}
	}
	return patient, nil
}

func marshalDiagnoses(diagnoses []string) (string, error) {
	if diagnoses == nil {
		diagnoses = []string{}
	}
	b, err := json.Marshal(diagnoses)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
