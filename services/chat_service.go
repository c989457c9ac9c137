package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"sammyAPI/internal/chat"
	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/metrics"
	"sammyAPI/internal/stats"
	"sammyAPI/internal/store"
)

type ChatService struct {
	store      store.Store
	users      *UserService
	stats      *StatsService
	completer  chat.Completer
	dailyLimit int
	now        func() time.Time
}

func NewChatService(st store.Store, users *UserService, statsService *StatsService, completer chat.Completer, dailyLimit int) *ChatService {
	if completer == nil {
		completer = chat.Disabled{}
	}
	return &ChatService{
		store:      st,
		users:      users,
		stats:      statsService,
		completer:  completer,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// Send answers one user message. A unit of the day's quota is reserved
// before the assistant is called and handed back if the call fails.
func (s *ChatService) Send(ctx context.Context, userID string, req *chat.Request) (*chat.Response, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, invalidf("message is required")
	}
	if len(message) > chat.MaxMessageLength {
		return nil, invalidf("message must be at most %d characters", chat.MaxMessageLength)
	}

	date, err := resolveDate(req.Date, s.now())
	if err != nil {
		return nil, err
	}

	used, err := s.reserve(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	text, err := s.Context(ctx, userID, date)
	if err != nil {
		s.release(ctx, userID, date)
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, chat.SystemPrompt+"\n\n"+text, []chat.Message{
		{Role: "user", Content: message},
	})
	if err != nil {
		metrics.ChatCompletions.WithLabelValues("failed").Inc()
		s.release(ctx, userID, date)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	metrics.ChatCompletions.WithLabelValues("ok").Inc()
	return &chat.Response{Reply: reply, Remaining: s.dailyLimit - used}, nil
}

// reserve takes one unit of the day's chat quota and returns the new usage.
// Only chatCount is written, so a fresh document is not a habit record.
func (s *ChatService) reserve(ctx context.Context, userID, date string) (int, error) {
	l, err := s.store.UpdateLog(ctx, userID, date, func(l *dailylog.DailyLog, exists bool) error {
		if l.ChatCount >= s.dailyLimit {
			return ErrQuotaExceeded
		}
		l.ChatCount++
		l.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reserve chat quota: %w", err)
	}
	return l.ChatCount, nil
}

func (s *ChatService) release(ctx context.Context, userID, date string) {
	_, err := s.store.UpdateLog(ctx, userID, date, func(l *dailylog.DailyLog, exists bool) error {
		if l.ChatCount > 0 {
			l.ChatCount--
		}
		return nil
	})
	if err != nil {
		log.Error("failed to release chat quota", "user", userID, "date", date, "err", err)
	}
}

// Context renders the user's current numbers as assistant prompt text.
func (s *ChatService) Context(ctx context.Context, userID, date string) (string, error) {
	anchor, err := resolveDate(date, s.now())
	if err != nil {
		return "", err
	}

	p := s.stats.profileOrDefaults(ctx, userID)

	var (
		overview   *stats.Overview
		cumulative *stats.CumulativeSavings
		streak     int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = s.stats.overview(gctx, userID, p, anchor)
		return err
	})
	g.Go(func() error {
		var err error
		cumulative, err = s.stats.cumulative(gctx, userID, p, stats.ModeTarget, stats.Range90d, anchor)
		return err
	})
	g.Go(func() error {
		var err error
		streak, err = s.stats.currentStreak(gctx, userID, p, anchor)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	return chat.BuildContext(chat.Input{
		Anchor:        anchor,
		Settings:      p.Settings(),
		Overview:      overview,
		Cumulative:    cumulative,
		CurrentStreak: streak,
	}), nil
}
