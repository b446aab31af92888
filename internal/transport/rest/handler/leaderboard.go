package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"versequest/internal/model"
	"versequest/internal/service"

	"github.com/gorilla/mux"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboardSvc *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardSvc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardSvc: leaderboardSvc}
}

// Top handles GET /v1/leaderboard
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboardSvc.Top(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Submit handles POST /v1/leaderboard
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Score == nil {
		writeError(w, http.StatusBadRequest, "username and score are required")
		return
	}

	entries, err := h.leaderboardSvc.SaveScore(r.Context(), req.Username, *req.Score)
	if err != nil {
		if errors.Is(err, service.ErrInvalidScore) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// List handles GET /v1/admin/scores
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	scores, err := h.leaderboardSvc.ListScores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scores == nil {
		scores = []model.Score{}
	}
	writeJSON(w, http.StatusOK, scores)
}

// DeleteAll handles DELETE /v1/admin/scores
func (h *LeaderboardHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.leaderboardSvc.DeleteAllScores(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "all scores deleted"})
}

// Delete handles DELETE /v1/admin/scores/{id}
func (h *LeaderboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.leaderboardSvc.DeleteScore(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "score deleted"})
}
