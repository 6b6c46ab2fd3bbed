package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/clinicbase/patients-be/internal/auth"
	"github.com/clinicbase/patients-be/internal/services"
)

// AuthHandler handles login and token refresh.
type AuthHandler struct {
	users services.UserServiceProvider
	codec *auth.TokenCodec
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{users: users, codec: codec}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a user and returns an access/refresh token pair
// carrying the user's role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrors := map[string][]string{}
	if payload.Username == "" {
		fieldErrors["username"] = []string{msgFieldRequired}
	}
	if payload.Password == "" {
		fieldErrors["password"] = []string{msgFieldRequired}
	}
	if len(fieldErrors) > 0 {
		respondFieldErrors(w, fieldErrors)
		return
	}

	user, err := h.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		// Unknown username and wrong password share one response.
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error().Err(err).Msg("Failed to look up credentials")
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	access, refresh, err := h.codec.IssuePair(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to sign tokens")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"access":  access,
		"refresh": refresh,
	})
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Refresh == "" {
		respondFieldErrors(w, map[string][]string{"refresh": {msgFieldRequired}})
		return
	}

	claims, err := h.codec.Verify(payload.Refresh, auth.TokenTypeRefresh)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid auth token")
		return
	}

	// Re-read the account so a deleted user cannot mint new tokens.
	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid auth token")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to look up user for refresh")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	access, err := h.codec.IssueAccess(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to sign access token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"access": access})
}
