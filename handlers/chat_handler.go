package handlers

import (
	"context"
	"net/http"
	"time"

	"sammyAPI/internal/chat"
	"sammyAPI/middleware"
	"sammyAPI/services"
)

// chatTimeout is longer than requestTimeout to leave room for the completion.
const chatTimeout = 45 * time.Second

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req chat.Request
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.chatService.Send(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get a reply")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *ChatHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date := r.URL.Query().Get("date")
	text, err := h.chatService.Context(ctx, userID, date)
	if err != nil {
		respondWithServiceError(w, err, "Failed to build chat context")
		return
	}

	respondWithJSON(w, http.StatusOK, chat.ContextResponse{Date: date, Context: text})
}
