package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"sammyAPI/middleware"
	"sammyAPI/services"
)

type StatsHandler struct {
	statsService *services.StatsService
	logService   *services.LogService
}

func NewStatsHandler(statsService *services.StatsService, logService *services.LogService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logService:   logService,
	}
}

func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	summary, _ := strconv.ParseBool(r.URL.Query().Get("summary"))

	overview, err := h.statsService.GetStats(ctx, userID, r.URL.Query().Get("date"), summary)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get stats")
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}

func (h *StatsHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	query := r.URL.Query()
	start := firstParam(query, "startDate", "start")
	end := firstParam(query, "endDate", "end")
	if start == "" || end == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameters 'startDate' and 'endDate' are required")
		return
	}

	days, err := h.logService.Range(ctx, userID, start, end)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get range")
		return
	}

	respondWithJSON(w, http.StatusOK, days)
}

func (h *StatsHandler) GetCumulative(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	q := r.URL.Query()
	savings, err := h.statsService.GetCumulative(ctx, userID, q.Get("date"), q.Get("mode"), q.Get("range"))
	if err != nil {
		respondWithServiceError(w, err, "Failed to get cumulative savings")
		return
	}

	respondWithJSON(w, http.StatusOK, savings)
}

func (h *StatsHandler) GetAllTime(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	totals, err := h.statsService.GetAllTime(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get all-time stats")
		return
	}

	respondWithJSON(w, http.StatusOK, totals)
}

// firstParam returns the first non-empty value among keys.
func firstParam(query url.Values, keys ...string) string {
	for _, key := range keys {
		if v := query.Get(key); v != "" {
			return v
		}
	}
	return ""
}
