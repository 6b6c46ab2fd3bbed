package handlers

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes the machine-readable {"error": ...} payload used
// for everything except field-level validation failures.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondFieldErrors writes a field -> messages map with a 400 status.
func respondFieldErrors(w http.ResponseWriter, fieldErrors map[string][]string) {
	respondJSON(w, http.StatusBadRequest, fieldErrors)
}
