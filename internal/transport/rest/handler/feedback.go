package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"versequest/internal/model"
	"versequest/internal/service"

	"github.com/gorilla/mux"
)

// FeedbackHandler handles feedback endpoints
type FeedbackHandler struct {
	feedbackSvc *service.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackSvc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// Submit handles POST /v1/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.feedbackSvc.Submit(r.Context(), req.Username, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFeedback) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /v1/admin/feedback
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.feedbackSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Delete handles DELETE /v1/admin/feedback/{id}
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.feedbackSvc.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "feedback deleted"})
}
