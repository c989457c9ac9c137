package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/charmbracelet/log"

	"sammyAPI/internal/metrics"
)

type FCMService struct {
	client *messaging.Client
}

func NewFCMService(ctx context.Context, app *firebase.App) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &FCMService{client: client}, nil
}

// Send delivers msg to each token individually. It fails only when every
// delivery failed.
func (s *FCMService) Send(ctx context.Context, tokens []string, msg Message) error {
	if len(tokens) == 0 {
		return nil
	}

	successCount := 0
	failureCount := 0

	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound: "default",
				},
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{Sound: "default"},
				},
			},
		}

		if _, err := s.client.Send(ctx, message); err != nil {
			if messaging.IsUnregistered(err) {
				log.Warn("FCM: token is no longer registered", "token", token)
			} else {
				log.Error("FCM: failed to send", "token", token, "err", err)
			}
			failureCount++
			metrics.PushesSent.WithLabelValues("failed").Inc()
			continue
		}
		successCount++
		metrics.PushesSent.WithLabelValues("sent").Inc()
	}

	log.Printf("FCM: Sent %d messages, %d failed", successCount, failureCount)

	if successCount == 0 {
		return fmt.Errorf("all push notifications failed")
	}
	return nil
}
