package handler

import (
	"net/http"
	"strings"
	"versequest/internal/game"

	"github.com/gorilla/mux"
)

// SessionHandler exposes the read-only diagnostic view of live game sessions.
type SessionHandler struct {
	registry *game.Registry
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *game.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps := h.registry.ListSessions()
	if snaps == nil {
		snaps = []game.SessionSnapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

// Get handles GET /v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])

	snap, err := h.registry.LookupSession(code)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
