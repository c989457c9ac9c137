package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"sammyAPI/internal/metrics"
	"sammyAPI/internal/milestone"
	"sammyAPI/internal/notification"
	"sammyAPI/internal/stats"
	"sammyAPI/internal/user"
)

const pushTimeout = 10 * time.Second

type MilestoneService struct {
	users    *UserService
	stats    *StatsService
	notifier notification.Notifier
	now      func() time.Time
}

// NewMilestoneService wires the evaluator. notifier may be nil to disable
// unlock pushes.
func NewMilestoneService(users *UserService, statsService *StatsService, notifier notification.Notifier) *MilestoneService {
	return &MilestoneService{users: users, stats: statsService, notifier: notifier, now: time.Now}
}

// Evaluate measures every milestone for the user at date and records the
// ones crossed for the first time. NewlyUnlocked lists exactly what this
// call recorded, so concurrent callers never both report the same unlock.
func (s *MilestoneService) Evaluate(ctx context.Context, userID, date string) (*milestone.Result, error) {
	anchor, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}

	p, err := s.users.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		longest int
		current int
		totals  *stats.AllTimeTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		longest, err = s.stats.longestStreak(gctx, userID, p)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.stats.currentStreak(gctx, userID, p, anchor)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.stats.allTime(gctx, userID, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	values := milestone.Stats{
		LongestStreak: longest,
		CurrentStreak: current,
		DrinksSaved:   totals.DrinksSaved,
		MoneySaved:    totals.MoneySaved,
		CaloriesCut:   totals.CaloriesCut,
	}

	statuses, crossed := milestone.Evaluate(milestone.Definitions, values, p)
	result := &milestone.Result{
		Milestones:    statuses,
		NewlyUnlocked: []milestone.Status{},
		Stats:         values,
	}
	if len(crossed) == 0 {
		return result, nil
	}

	unlockedAt := s.now()
	events := make([]user.UnlockEvent, 0, len(crossed))
	for _, def := range crossed {
		events = append(events, user.UnlockEvent{ID: def.ID, UnlockedAt: unlockedAt})
	}

	var appended []user.UnlockEvent
	updated, err := s.users.store.UpdateProfile(ctx, userID, func(p *user.Profile, exists bool) error {
		s.users.touch(p, exists)
		appended = p.Unlock(events)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record milestones: %w", err)
	}

	// Re-evaluate against the stored profile so unlocks recorded by a
	// concurrent request carry their own timestamps.
	result.Milestones, _ = milestone.Evaluate(milestone.Definitions, values, updated)
	result.NewlyUnlocked = milestone.MarkUnlocked(result.Milestones, appended)

	for _, st := range result.NewlyUnlocked {
		metrics.MilestonesUnlocked.WithLabelValues(string(st.Type)).Inc()
	}
	if len(appended) > 0 {
		log.Printf("Evaluate: %s unlocked %d milestone(s)", userID, len(appended))
		s.push(ctx, userID, updated.FCMTokens, result.NewlyUnlocked)
	}
	return result, nil
}

// push notifies the user's devices in the background. Failures are logged.
func (s *MilestoneService) push(ctx context.Context, userID string, tokens []string, unlocked []milestone.Status) {
	if s.notifier == nil || len(tokens) == 0 {
		return
	}

	ids := make([]string, 0, len(unlocked))
	labels := make([]string, 0, len(unlocked))
	for _, st := range unlocked {
		ids = append(ids, st.ID)
		labels = append(labels, st.Label)
	}
	msg := notification.MilestoneUnlocked(ids, labels)
	tokens = append([]string(nil), tokens...)

	go func() {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
		defer cancel()

		if err := s.notifier.Send(pushCtx, tokens, msg); err != nil {
			log.Error("failed to send milestone push", "user", userID, "err", err)
		}
	}()
}
