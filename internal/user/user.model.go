package user

import (
	"time"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/dates"
)

const (
	DefaultDailyGoal    = 2
	DefaultAvgDrinkCost = 10.0
	DefaultAvgDrinkCals = 150
)

type UnlockEvent struct {
	ID         string    `json:"id" firestore:"id"`
	UnlockedAt time.Time `json:"unlockedAt" firestore:"unlockedAt"`
}

type Achievements struct {
	UnlockedMilestones []UnlockEvent `json:"unlockedMilestones" firestore:"unlockedMilestones"`
}

// Profile is the per-user settings document. Numeric settings are pointers so
// that an unset value can be told apart from an explicit zero.
type Profile struct {
	DailyGoal           *int           `json:"dailyGoal,omitempty" firestore:"dailyGoal,omitempty"`
	AvgDrinkCost        *float64       `json:"avgDrinkCost,omitempty" firestore:"avgDrinkCost,omitempty"`
	AvgDrinkCals        *int           `json:"avgDrinkCals,omitempty" firestore:"avgDrinkCals,omitempty"`
	RegisteredDate      string         `json:"registeredDate" firestore:"registeredDate"`
	TypicalWeek         map[string]int `json:"typicalWeek,omitempty" firestore:"typicalWeek,omitempty"`
	WeeklyTargets       map[string]int `json:"weeklyTargets,omitempty" firestore:"weeklyTargets,omitempty"`
	WeeklyPlanWeekStart string         `json:"weeklyPlanWeekStart,omitempty" firestore:"weeklyPlanWeekStart,omitempty"`
	Achievements        Achievements   `json:"achievements" firestore:"achievements"`
	FCMTokens           []string       `json:"-" firestore:"fcmTokens,omitempty"`
	CreatedAt           time.Time      `json:"createdAt" firestore:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt" firestore:"updatedAt"`
}

func (p *Profile) Goal() int {
	if p == nil || p.DailyGoal == nil {
		return DefaultDailyGoal
	}
	return *p.DailyGoal
}

func (p *Profile) Cost() float64 {
	if p == nil || p.AvgDrinkCost == nil {
		return DefaultAvgDrinkCost
	}
	return *p.AvgDrinkCost
}

func (p *Profile) Cals() int {
	if p == nil || p.AvgDrinkCals == nil {
		return DefaultAvgDrinkCals
	}
	return *p.AvgDrinkCals
}

// Registered returns the registration day as YYYY-MM-DD. Values written as
// full timestamps are cut to their date part; anything unparseable reads as
// unset.
func (p *Profile) Registered() string {
	if p == nil || len(p.RegisteredDate) < len(dates.Layout) {
		return ""
	}
	day := p.RegisteredDate[:len(dates.Layout)]
	if !dates.Valid(day) {
		return ""
	}
	return day
}

// Baseline returns the typical-week value for the weekday of date.
func (p *Profile) Baseline(date string) (int, bool) {
	if p == nil || len(p.TypicalWeek) == 0 {
		return 0, false
	}
	v, ok := p.TypicalWeek[dates.Weekday(date)]
	return v, ok
}

func (p *Profile) HasTypicalWeek() bool {
	return p != nil && len(p.TypicalWeek) > 0
}

// SnapshotFor returns the constants to stamp on a log written for date. A
// weekly target overrides the daily goal only inside the planned week.
func (p *Profile) SnapshotFor(date string) dailylog.Snapshot {
	goal := p.Goal()
	if p != nil && p.WeeklyPlanWeekStart != "" && p.WeeklyPlanWeekStart == dates.WeekStart(date) {
		if target, ok := p.WeeklyTargets[dates.Weekday(date)]; ok {
			goal = target
		}
	}
	return dailylog.Snapshot{
		Goal:        goal,
		CostPerUnit: p.Cost(),
		CalsPerUnit: p.Cals(),
	}
}

func (p *Profile) UnlockedAt(id string) (time.Time, bool) {
	if p == nil {
		return time.Time{}, false
	}
	for _, ev := range p.Achievements.UnlockedMilestones {
		if ev.ID == id {
			return ev.UnlockedAt, true
		}
	}
	return time.Time{}, false
}

// Unlock appends the events whose ids are not yet recorded and returns the
// ones it appended.
func (p *Profile) Unlock(events []UnlockEvent) []UnlockEvent {
	seen := make(map[string]bool, len(p.Achievements.UnlockedMilestones))
	for _, ev := range p.Achievements.UnlockedMilestones {
		seen[ev.ID] = true
	}

	var appended []UnlockEvent
	for _, ev := range events {
		if seen[ev.ID] {
			continue
		}
		seen[ev.ID] = true
		p.Achievements.UnlockedMilestones = append(p.Achievements.UnlockedMilestones, ev)
		appended = append(appended, ev)
	}
	return appended
}

func (p *Profile) AddToken(token string) bool {
	for _, t := range p.FCMTokens {
		if t == token {
			return false
		}
	}
	p.FCMTokens = append(p.FCMTokens, token)
	return true
}

func (p Profile) Clone() Profile {
	c := p
	if p.DailyGoal != nil {
		c.DailyGoal = dailylog.IntPtr(*p.DailyGoal)
	}
	if p.AvgDrinkCost != nil {
		cost := *p.AvgDrinkCost
		c.AvgDrinkCost = &cost
	}
	if p.AvgDrinkCals != nil {
		c.AvgDrinkCals = dailylog.IntPtr(*p.AvgDrinkCals)
	}
	c.TypicalWeek = cloneWeek(p.TypicalWeek)
	c.WeeklyTargets = cloneWeek(p.WeeklyTargets)
	c.Achievements.UnlockedMilestones = append([]UnlockEvent(nil), p.Achievements.UnlockedMilestones...)
	c.FCMTokens = append([]string(nil), p.FCMTokens...)
	return c
}

func cloneWeek(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
