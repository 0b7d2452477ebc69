package utils

import (
	"encoding/json"
	"net/http"

	"award-registration/internal/models"
)

// WriteJSON writes v with the given status. Encoding failures are ignored
// because the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, models.ErrorResponse{Error: message})
}
