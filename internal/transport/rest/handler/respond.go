package handler

import (
	"encoding/json"
	"net/http"
)

// Shared response helpers for every handler in this package. Errors always
// serialize as {"error": message} so clients have one shape to parse.

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
