package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"dungeon-depths/internal/game"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps the engine's error taxonomy onto HTTP statuses.
// Store errors are logged server-side but never echoed to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case game.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, game.ErrStoreUnavailable):
		log.Printf("store error: %v", err)
		writeError(w, http.StatusServiceUnavailable, "store temporarily unavailable")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
