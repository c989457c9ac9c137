package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/dates"
	"sammyAPI/internal/store"
	"sammyAPI/internal/user"
)

// MaxWeeklyPlanValue caps a single weekday entry of a weekly plan.
const MaxWeeklyPlanValue = 50

type UserService struct {
	store store.Store
	now   func() time.Time
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st, now: time.Now}
}

// LoadProfile returns the user's profile, creating it on first access with
// today as the registration date.
func (s *UserService) LoadProfile(ctx context.Context, userID string) (*user.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p, err = s.store.UpdateProfile(ctx, userID, func(p *user.Profile, exists bool) error {
		s.touch(p, exists)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	log.Printf("LoadProfile: created profile for %s", userID)
	return p, nil
}

// CreateProfile creates the profile with an explicit registration date. An
// existing profile is returned unchanged.
func (s *UserService) CreateProfile(ctx context.Context, userID, registered string) (*user.Profile, error) {
	if !dates.Valid(registered) {
		return nil, invalidf("invalid registration date %q", registered)
	}

	p, err := s.store.UpdateProfile(ctx, userID, func(p *user.Profile, exists bool) error {
		if exists {
			return nil
		}
		s.touch(p, exists)
		p.RegisteredDate = registered
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// touch stamps timestamps and, for a new profile, the registration date.
func (s *UserService) touch(p *user.Profile, exists bool) {
	now := s.now()
	if !exists {
		p.RegisteredDate = dates.Today(now)
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func (s *UserService) GetSettings(ctx context.Context, userID string) (*user.Settings, error) {
	p, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Settings(), nil
}

// UpdateSettings changes the profile defaults. Snapshots already stamped on
// past logs are left alone.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, req *user.UpdateSettingsRequest) (*user.Settings, error) {
	if req.DailyGoal == nil && req.AvgDrinkCost == nil && req.AvgDrinkCals == nil {
		return nil, invalidf("at least one of dailyGoal, avgDrinkCost, avgDrinkCals is required")
	}
	if req.DailyGoal != nil && *req.DailyGoal < 0 {
		return nil, invalidf("dailyGoal must not be negative")
	}
	if req.AvgDrinkCost != nil && *req.AvgDrinkCost < 0 {
		return nil, invalidf("avgDrinkCost must not be negative")
	}
	if req.AvgDrinkCals != nil && *req.AvgDrinkCals < 0 {
		return nil, invalidf("avgDrinkCals must not be negative")
	}

	p, err := s.store.UpdateProfile(ctx, userID, func(p *user.Profile, exists bool) error {
		s.touch(p, exists)
		if req.DailyGoal != nil {
			p.DailyGoal = dailylog.IntPtr(*req.DailyGoal)
		}
		if req.AvgDrinkCost != nil {
			cost := *req.AvgDrinkCost
			p.AvgDrinkCost = &cost
		}
		if req.AvgDrinkCals != nil {
			p.AvgDrinkCals = dailylog.IntPtr(*req.AvgDrinkCals)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return p.Settings(), nil
}

func (s *UserService) GetWeeklyPlan(ctx context.Context, userID string) (*user.WeeklyPlan, error) {
	p, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return weeklyPlanOf(p), nil
}

// SaveWeeklyPlan stores the typical week and/or the targets for the week of
// req.Date, then stamps each target onto the goal of the remaining days of
// that week. Projection only touches goal, so it never creates a record.
func (s *UserService) SaveWeeklyPlan(ctx context.Context, userID string, req *user.WeeklyPlanRequest) (*user.WeeklyPlan, error) {
	if req.TypicalWeek == nil && req.WeeklyTargets == nil {
		return nil, invalidf("typicalWeek or weeklyTargets is required")
	}

	anchor, err := resolveDate(req.Date, s.now())
	if err != nil {
		return nil, err
	}

	typical, err := normalizeWeek("typicalWeek", req.TypicalWeek)
	if err != nil {
		return nil, err
	}
	targets, err := normalizeWeek("weeklyTargets", req.WeeklyTargets)
	if err != nil {
		return nil, err
	}

	p, err := s.store.UpdateProfile(ctx, userID, func(p *user.Profile, exists bool) error {
		s.touch(p, exists)
		if typical != nil {
			p.TypicalWeek = typical
		}
		if targets != nil {
			p.WeeklyTargets = targets
			p.WeeklyPlanWeekStart = dates.WeekStart(anchor)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save weekly plan: %w", err)
	}

	if targets != nil {
		if err := s.projectTargets(ctx, userID, anchor, targets); err != nil {
			return nil, err
		}
	}
	return weeklyPlanOf(p), nil
}

func (s *UserService) projectTargets(ctx context.Context, userID, anchor string, targets map[string]int) error {
	end := dates.WeekEnd(anchor)
	for date := anchor; date <= end; date = dates.AddDays(date, 1) {
		target, ok := targets[dates.Weekday(date)]
		if !ok {
			continue
		}
		_, err := s.store.UpdateLog(ctx, userID, date, func(l *dailylog.DailyLog, exists bool) error {
			l.Goal = dailylog.IntPtr(target)
			l.UpdatedAt = s.now()
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to project goal onto %s: %w", date, err)
		}
	}
	return nil
}

func (s *UserService) RegisterDevice(ctx context.Context, userID string, req *user.RegisterDeviceRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return invalidf("token is required")
	}

	_, err := s.store.UpdateProfile(ctx, userID, func(p *user.Profile, exists bool) error {
		s.touch(p, exists)
		p.AddToken(token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

func weeklyPlanOf(p *user.Profile) *user.WeeklyPlan {
	plan := &user.WeeklyPlan{
		TypicalWeek:   p.TypicalWeek,
		WeeklyTargets: p.WeeklyTargets,
		WeekStart:     p.WeeklyPlanWeekStart,
	}
	if plan.TypicalWeek == nil {
		plan.TypicalWeek = map[string]int{}
	}
	if plan.WeeklyTargets == nil {
		plan.WeeklyTargets = map[string]int{}
	}
	return plan
}

// normalizeWeek lowercases weekday keys and checks value bounds. A nil map
// stays nil so callers can tell "not sent" from "cleared".
func normalizeWeek(field string, week map[string]int) (map[string]int, error) {
	if week == nil {
		return nil, nil
	}
	out := make(map[string]int, len(week))
	for name, v := range week {
		day, ok := dates.NormalizeWeekday(name)
		if !ok {
			return nil, invalidf("%s: unknown weekday %q", field, name)
		}
		if v < 0 || v > MaxWeeklyPlanValue {
			return nil, invalidf("%s: %s must be between 0 and %d", field, day, MaxWeeklyPlanValue)
		}
		out[day] = v
	}
	return out, nil
}
