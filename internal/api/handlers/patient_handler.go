package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/clinicbase/patients-be/internal/auth"
	"github.com/clinicbase/patients-be/internal/services"
)

// PatientHandler handles HTTP requests for patient records.
type PatientHandler struct {
	patients services.PatientServiceProvider
	events   services.EventServiceProvider
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(patients services.PatientServiceProvider, events services.EventServiceProvider) *PatientHandler {
	return &PatientHandler{patients: patients, events: events}
}

// List handles the request to get all patient records.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.ListPatients()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list patients")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve patients")
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

// Create handles the request to create a new patient record.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input patientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	validated, fieldErrors := input.validate(false)
	if fieldErrors != nil {
		respondFieldErrors(w, fieldErrors)
		return
	}

	patient, err := h.patients.CreatePatient(*validated.DateOfBirth, validated.Diagnoses)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create patient")
		respondError(w, http.StatusInternalServerError, "Failed to create patient")
		return
	}

	h.audit(r, "patient.create", fmt.Sprintf("Patient record %d created", patient.ID), patient.ID)
	respondJSON(w, http.StatusCreated, patient)
}

// Get handles the request to get a single patient record by its ID.
// Available to any authenticated caller.
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := patientID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}

	patient, err := h.patients.GetPatientByID(id)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, "Patient not found")
			return
		}
		log.Error().Err(err).Int64("patient_id", id).Msg("Failed to get patient")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve patient")
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

// Update handles the request to update an existing patient record.
// Fields absent from the payload keep their stored values.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := patientID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}

	// Existence check runs after the role gate but before validation.
	existing, err := h.patients.GetPatientByID(id)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, "Patient not found")
			return
		}
		log.Error().Err(err).Int64("patient_id", id).Msg("Failed to get patient")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve patient")
		return
	}

	var input patientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	validated, fieldErrors := input.validate(true)
	if fieldErrors != nil {
		respondFieldErrors(w, fieldErrors)
		return
	}

	dateOfBirth := existing.DateOfBirth
	if validated.DateOfBirth != nil {
		dateOfBirth = *validated.DateOfBirth
	}
	diagnoses := existing.Diagnoses
	if validated.HasDiagnoses {
		diagnoses = validated.Diagnoses
	}

	patient, err := h.patients.UpdatePatient(id, dateOfBirth, diagnoses)
	if err != nil {
		log.Error().Err(err).Int64("patient_id", id).Msg("Failed to update patient")
		respondError(w, http.StatusInternalServerError, "Failed to update patient")
		return
	}

	h.audit(r, "patient.update", fmt.Sprintf("Patient record %d updated", id), id)
	respondJSON(w, http.StatusOK, patient)
}

// Delete handles the request to delete a patient record.
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := patientID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Patient not found")
		return
	}

	if _, err := h.patients.GetPatientByID(id); err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, "Patient not found")
			return
		}
		log.Error().Err(err).Int64("patient_id", id).Msg("Failed to get patient")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve patient")
		return
	}

	if err := h.patients.DeletePatient(id); err != nil {
		log.Error().Err(err).Int64("patient_id", id).Msg("Failed to delete patient")
		respondError(w, http.StatusInternalServerError, "Failed to delete patient")
		return
	}

	h.audit(r, "patient.delete", fmt.Sprintf("Patient record %d deleted", id), id)
	w.WriteHeader(http.StatusNoContent)
}

// audit records the action; failures are logged, never surfaced.
func (h *PatientHandler) audit(r *http.Request, action, message string, patientID int64) {
	actor := ""
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		actor = claims.Username
	}
	if err := h.events.Record(action, actor, message, &patientID); err != nil {
		log.Warn().Err(err).Str("action", action).Int64("patient_id", patientID).Msg("Failed to record audit event")
	}
}

// patientID parses the {id} route parameter. Values that are not an
// integer behave like missing records.
func patientID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
