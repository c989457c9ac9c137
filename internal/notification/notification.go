package notification

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers a message to a set of device tokens.
type Notifier interface {
	Send(ctx context.Context, tokens []string, msg Message) error
}

// MilestoneUnlocked builds the push sent when one or more milestones unlock.
func MilestoneUnlocked(ids, labels []string) Message {
	msg := Message{
		Title: "Milestone unlocked!",
		Data: map[string]string{
			"type":       "milestone_unlocked",
			"milestones": strings.Join(ids, ","),
		},
	}
	switch len(labels) {
	case 0:
		msg.Body = "You reached a new milestone."
	case 1:
		msg.Body = fmt.Sprintf("You unlocked %s. Keep it going!", labels[0])
	default:
		msg.Title = fmt.Sprintf("%d milestones unlocked!", len(labels))
		msg.Body = fmt.Sprintf("You unlocked %s.", strings.Join(labels, ", "))
	}
	return msg
}
