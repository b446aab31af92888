package handler

import (
	"net/http"
	"strconv"
	"versequest/internal/corpus"

	"github.com/gorilla/mux"
)

// VerseHandler serves verse content from the answer corpus.
type VerseHandler struct {
	corpus *corpus.Corpus
}

// NewVerseHandler creates a new verse handler
func NewVerseHandler(c *corpus.Corpus) *VerseHandler {
	return &VerseHandler{corpus: c}
}

// Info handles GET /v1/verses
func (h *VerseHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"size": h.corpus.Size()})
}

// Get handles GET /v1/verses/{index}
func (h *VerseHandler) Get(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid verse index")
		return
	}

	verse, err := h.corpus.Verse(index)
	if err != nil {
		writeError(w, http.StatusNotFound, "verse not found")
		return
	}
	writeJSON(w, http.StatusOK, verse)
}
