package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"sammyAPI/internal/chat"
	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/stats"
	"sammyAPI/internal/store"
	"sammyAPI/internal/user"
)

type StatsService struct {
	store     store.Store
	users     *UserService
	completer chat.Completer
	now       func() time.Time
}

func NewStatsService(st store.Store, users *UserService, completer chat.Completer) *StatsService {
	if completer == nil {
		completer = chat.Disabled{}
	}
	return &StatsService{store: st, users: users, completer: completer, now: time.Now}
}

// profileOrDefaults never fails: dashboards fall back to the default
// settings when the profile cannot be read.
func (s *StatsService) profileOrDefaults(ctx context.Context, userID string) *user.Profile {
	p, err := s.users.LoadProfile(ctx, userID)
	if err != nil {
		log.Error("failed to load profile, using defaults", "user", userID, "err", err)
		return nil
	}
	return p
}

// GetStats returns the dashboard overview anchored at date. With summary set
// it also asks the assistant for a short recap; that part is best effort.
func (s *StatsService) GetStats(ctx context.Context, userID, date string, summary bool) (*stats.Overview, error) {
	anchor, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}

	p := s.profileOrDefaults(ctx, userID)
	overview, err := s.overview(ctx, userID, p, anchor)
	if err != nil {
		return nil, err
	}

	if summary {
		overview.Summary = s.summarize(ctx, p, overview, anchor)
	}
	return overview, nil
}

func (s *StatsService) summarize(ctx context.Context, p *user.Profile, overview *stats.Overview, anchor string) string {
	text := chat.BuildContext(chat.Input{
		Anchor:        anchor,
		Settings:      p.Settings(),
		Overview:      overview,
		CurrentStreak: overview.Insights.DryStreak,
	})

	reply, err := s.completer.Complete(ctx, chat.SystemPrompt+"\n\n"+text, []chat.Message{
		{Role: "user", Content: chat.SummaryPrompt},
	})
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			log.Debug("GetStats: summary skipped, assistant not configured")
		} else {
			log.Error("GetStats: summary failed", "err", err)
		}
		return ""
	}
	return reply
}

func (s *StatsService) overview(ctx context.Context, userID string, p *user.Profile, anchor string) (*stats.Overview, error) {
	logs, err := s.store.ListLogs(ctx, userID, dailylog.Query{From: stats.OverviewStart(anchor)})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return stats.Aggregate(p, logs, anchor), nil
}

func (s *StatsService) GetCumulative(ctx context.Context, userID, date, mode, rng string) (*stats.CumulativeSavings, error) {
	anchor, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}

	m := stats.Mode(mode)
	switch m {
	case "":
		m = stats.ModeTarget
	case stats.ModeTarget, stats.ModeBenchmark:
	default:
		return nil, invalidf("mode must be %q or %q", stats.ModeTarget, stats.ModeBenchmark)
	}

	r := stats.Range(rng)
	switch r {
	case "":
		r = stats.Range90d
	case stats.Range90d, stats.RangeAll:
	default:
		return nil, invalidf("range must be %q or %q", stats.Range90d, stats.RangeAll)
	}

	p := s.profileOrDefaults(ctx, userID)
	return s.cumulative(ctx, userID, p, m, r, anchor)
}

func (s *StatsService) cumulative(ctx context.Context, userID string, p *user.Profile, mode stats.Mode, rng stats.Range, anchor string) (*stats.CumulativeSavings, error) {
	earliest := ""
	if rng == stats.RangeAll && p.Registered() == "" {
		first, err := s.store.ListLogs(ctx, userID, dailylog.Query{Limit: 1})
		if err != nil {
			return nil, fmt.Errorf("failed to find earliest log: %w", err)
		}
		if len(first) > 0 {
			earliest = first[0].Date
		}
	}

	start := stats.CumulativeStart(p, rng, anchor, earliest)
	if start > anchor {
		return stats.Cumulative(p, nil, mode, start, anchor), nil
	}

	logs, err := s.store.ListLogs(ctx, userID, dailylog.Query{From: start, To: anchor})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return stats.Cumulative(p, logs, mode, start, anchor), nil
}

func (s *StatsService) GetAllTime(ctx context.Context, userID string) (*stats.AllTimeTotals, error) {
	p := s.profileOrDefaults(ctx, userID)
	return s.allTime(ctx, userID, p)
}

func (s *StatsService) allTime(ctx context.Context, userID string, p *user.Profile) (*stats.AllTimeTotals, error) {
	logs, err := s.store.ListLogs(ctx, userID, dailylog.Query{From: p.Registered()})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return stats.AllTime(p, logs), nil
}

func (s *StatsService) CurrentStreak(ctx context.Context, userID, date string) (int, error) {
	anchor, err := resolveDate(date, s.now())
	if err != nil {
		return 0, err
	}
	p := s.profileOrDefaults(ctx, userID)
	return s.currentStreak(ctx, userID, p, anchor)
}

func (s *StatsService) currentStreak(ctx context.Context, userID string, p *user.Profile, anchor string) (int, error) {
	logs, err := s.store.ListLogs(ctx, userID, dailylog.Query{From: stats.CurrentStreakStart(anchor), To: anchor})
	if err != nil {
		return 0, fmt.Errorf("failed to list logs: %w", err)
	}
	return stats.CurrentStreak(p, logs, anchor), nil
}

func (s *StatsService) LongestStreak(ctx context.Context, userID string) (int, error) {
	p := s.profileOrDefaults(ctx, userID)
	return s.longestStreak(ctx, userID, p)
}

func (s *StatsService) longestStreak(ctx context.Context, userID string, p *user.Profile) (int, error) {
	logs, err := s.store.ListLogs(ctx, userID, dailylog.Query{
		Limit:      stats.LongestStreakFetchLimit,
		Descending: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list logs: %w", err)
	}
	return stats.LongestStreak(p, logs), nil
}
