package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	svix "github.com/svix/svix-webhooks/go"

	"sammyAPI/internal/dates"
	"sammyAPI/services"
)

type clerkWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clerkUserData struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
}

type WebhookHandler struct {
	userService *services.UserService
	webhook     *svix.Webhook
	now         func() time.Time
}

// NewWebhookHandler takes the Clerk signing secret in its "whsec_..." form.
func NewWebhookHandler(userService *services.UserService, signingSecret string) (*WebhookHandler, error) {
	wh, err := svix.NewWebhook(signingSecret)
	if err != nil {
		return nil, err
	}
	return &WebhookHandler{userService: userService, webhook: wh, now: time.Now}, nil
}

func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Error reading body")
		return
	}

	if err := h.webhook.Verify(body, r.Header); err != nil {
		log.Warn("Invalid webhook signature", "err", err)
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event clerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook")
		return
	}

	log.Printf("Received webhook event: %s", event.Type)

	switch event.Type {
	case "user.created":
		var data clerkUserData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.ID == "" {
			respondWithError(w, http.StatusBadRequest, "Invalid user payload")
			return
		}

		registered := dates.Today(h.now())
		if data.CreatedAt > 0 {
			registered = dates.Today(time.UnixMilli(data.CreatedAt))
		}

		if _, err := h.userService.CreateProfile(r.Context(), data.ID, registered); err != nil {
			respondWithServiceError(w, err, "Error processing webhook")
			return
		}

	default:
		log.Printf("Unhandled webhook event type: %s", event.Type)
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
