package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/clinicbase/patients-be/internal/auth"
	ws "github.com/clinicbase/patients-be/internal/websocket"
)

// WebSocketHandler upgrades connections for the live audit event feed.
type WebSocketHandler struct {
	hub   *ws.Hub
	codec *auth.TokenCodec
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, codec *auth.TokenCodec) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, codec: codec}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. Browsers cannot set
// an Authorization header on the upgrade, so the access token travels
// in the "token" query parameter. The feed is doctor-only.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	claims, err := h.codec.Verify(r.URL.Query().Get("token"), auth.TokenTypeAccess)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid auth token")
		return
	}
	if !claims.Role.CanManageRecords() {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
