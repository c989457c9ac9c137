package handlers

import (
	"context"
	"net/http"

	"sammyAPI/internal/dailylog"
	"sammyAPI/middleware"
	"sammyAPI/services"
)

type LogHandler struct {
	logService *services.LogService
}

func NewLogHandler(logService *services.LogService) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

func (h *LogHandler) Increment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dailylog.IncrementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	l, err := h.logService.Increment(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to log")
		return
	}

	respondWithJSON(w, http.StatusOK, l)
}

func (h *LogHandler) Set(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dailylog.SetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	l, err := h.logService.Set(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update log")
		return
	}

	respondWithJSON(w, http.StatusOK, l)
}

func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'date' is required")
		return
	}

	if err := h.logService.Delete(ctx, userID, date); err != nil {
		respondWithServiceError(w, err, "Failed to delete log")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Log deleted"})
}
