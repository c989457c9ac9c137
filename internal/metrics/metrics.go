package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MilestonesUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milestones_unlocked_total",
			Help: "Total number of milestones unlocked",
		},
		[]string{"type"},
	)
	LogWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daily_log_writes_total",
			Help: "Total number of daily log writes by operation",
		},
		[]string{"op"},
	)
	ChatCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_completions_total",
			Help: "Total number of chat completions by outcome",
		},
		[]string{"outcome"},
	)
	PushesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Total number of push notifications by outcome",
		},
		[]string{"outcome"},
	)
)

// Register adds the domain collectors to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(MilestonesUnlocked, LogWrites, ChatCompletions, PushesSent)
}
