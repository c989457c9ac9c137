package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"sammyAPI/internal/user"
	"sammyAPI/middleware"
	"sammyAPI/services"
)

type UserHandler struct {
	userService      *services.UserService
	milestoneService *services.MilestoneService
}

func NewUserHandler(userService *services.UserService, milestoneService *services.MilestoneService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		milestoneService: milestoneService,
	}
}

func (h *UserHandler) GetMilestones(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.milestoneService.Evaluate(ctx, userID, r.URL.Query().Get("date"))
	if err != nil {
		respondWithServiceError(w, err, "Failed to get milestones")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *UserHandler) GetWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	plan, err := h.userService.GetWeeklyPlan(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get weekly plan")
		return
	}

	respondWithJSON(w, http.StatusOK, plan)
}

func (h *UserHandler) SaveWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.WeeklyPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := h.userService.SaveWeeklyPlan(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to save weekly plan")
		return
	}

	log.Printf("SaveWeeklyPlan Handler: saved plan for %s (week %s)", userID, plan.WeekStart)
	respondWithJSON(w, http.StatusOK, plan)
}

func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	settings, err := h.userService.GetSettings(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get settings")
		return
	}

	respondWithJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.userService.UpdateSettings(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update settings")
		return
	}

	respondWithJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.RegisterDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.userService.RegisterDevice(ctx, userID, &req); err != nil {
		respondWithServiceError(w, err, "Failed to register device")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Device registered"})
}
