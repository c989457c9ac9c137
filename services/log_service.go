package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/dates"
	"sammyAPI/internal/metrics"
	"sammyAPI/internal/stats"
	"sammyAPI/internal/store"
)

// MaxRangeDays caps the inclusive span of a range read.
const MaxRangeDays = 366

type LogService struct {
	store store.Store
	users *UserService
	now   func() time.Time
}

func NewLogService(st store.Store, users *UserService) *LogService {
	return &LogService{store: st, users: users, now: time.Now}
}

// Increment adds req.Count (one when omitted) to the day's count. The first
// write for a date stamps the profile snapshot; a zero count on a new day
// records an explicit dry day.
func (s *LogService) Increment(ctx context.Context, userID string, req *dailylog.IncrementRequest) (*dailylog.DailyLog, error) {
	date, err := resolveDate(req.Date, s.now())
	if err != nil {
		return nil, err
	}
	// Today is UTC; a day of slack lets clients ahead of UTC log their local today.
	if date > dates.AddDays(dates.Today(s.now()), 1) {
		return nil, invalidf("cannot log a future date")
	}

	count := 1
	if req.Count != nil {
		count = *req.Count
	}
	if count < 0 {
		return nil, invalidf("count must not be negative")
	}

	p, err := s.users.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := p.SnapshotFor(date)

	l, err := s.store.UpdateLog(ctx, userID, date, func(l *dailylog.DailyLog, exists bool) error {
		if l.Count == nil {
			l.Count = dailylog.IntPtr(count)
		} else {
			l.Count = dailylog.IntPtr(*l.Count + count)
		}
		l.ApplySnapshot(snapshot)
		l.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to increment log: %w", err)
	}

	metrics.LogWrites.WithLabelValues("increment").Inc()
	return l, nil
}

// Set replaces the count and/or goal of a day. Future dates are only
// accepted in dev mode.
func (s *LogService) Set(ctx context.Context, userID string, req *dailylog.SetRequest) (*dailylog.DailyLog, error) {
	date, err := resolveDate(req.Date, s.now())
	if err != nil {
		return nil, err
	}
	if !req.DevMode && date > dates.Today(s.now()) {
		return nil, invalidf("cannot edit a future date")
	}
	if req.NewCount == nil && req.NewGoal == nil {
		return nil, invalidf("newCount or newGoal is required")
	}
	if req.NewCount != nil && *req.NewCount < 0 {
		return nil, invalidf("newCount must not be negative")
	}
	if req.NewGoal != nil && *req.NewGoal < 0 {
		return nil, invalidf("newGoal must not be negative")
	}

	p, err := s.users.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot := p.SnapshotFor(date)

	l, err := s.store.UpdateLog(ctx, userID, date, func(l *dailylog.DailyLog, exists bool) error {
		if req.NewCount != nil {
			l.Count = dailylog.IntPtr(*req.NewCount)
		}
		if req.NewGoal != nil {
			l.Goal = dailylog.IntPtr(*req.NewGoal)
		}
		if l.Count != nil {
			l.ApplySnapshot(snapshot)
		}
		l.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set log: %w", err)
	}

	metrics.LogWrites.WithLabelValues("set").Inc()
	return l, nil
}

func (s *LogService) Delete(ctx context.Context, userID, date string) error {
	date, err := resolveDate(date, s.now())
	if err != nil {
		return err
	}

	if err := s.store.DeleteLog(ctx, userID, date); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete log: %w", err)
	}

	log.Printf("Delete: removed log %s for %s", date, userID)
	metrics.LogWrites.WithLabelValues("delete").Inc()
	return nil
}

// Range returns every date from start to end with its stored count and goal.
// Days without a record report zero against the profile goal.
func (s *LogService) Range(ctx context.Context, userID, start, end string) (map[string]dailylog.RangeDay, error) {
	if !dates.Valid(start) || !dates.Valid(end) {
		return nil, invalidf("start and end must be YYYY-MM-DD dates")
	}
	if start > end {
		return nil, invalidf("start must not be after end")
	}
	if dates.DaysBetween(start, end)+1 > MaxRangeDays {
		return nil, invalidf("range must not exceed %d days", MaxRangeDays)
	}

	p, err := s.users.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.store.ListLogs(ctx, userID, dailylog.Query{From: start, To: end})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	tl := stats.NewTimeline(logs, p)
	out := make(map[string]dailylog.RangeDay, dates.DaysBetween(start, end)+1)
	for date := start; date <= end; date = dates.AddDays(date, 1) {
		d := tl.At(date)
		out[date] = dailylog.RangeDay{
			Today:     dailylog.DayValue{Count: d.Count, Limit: d.Goal},
			HasRecord: d.Recorded,
		}
	}
	return out, nil
}
