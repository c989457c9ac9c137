package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"sammyAPI/internal/chat"
	"sammyAPI/internal/store"
	"sammyAPI/services"
)

// requestTimeout bounds the work done for a single API call.
const requestTimeout = 5 * time.Second

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service and store errors onto status codes.
// Anything unrecognised is logged and answered with fallback as a 500.
func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrQuotaExceeded):
		respondWithError(w, http.StatusTooManyRequests, "Daily chat limit reached")
	case errors.Is(err, chat.ErrNotConfigured):
		respondWithError(w, http.StatusServiceUnavailable, "Chat assistant is not available")
	case errors.Is(err, store.ErrUnavailable):
		log.Error(fallback, "err", err)
		respondWithError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		log.Error(fallback, "err", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(dst)
}
