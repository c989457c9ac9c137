package stats

import (
	"sort"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/user"
)

// Day is a normalized view of one calendar date. Recorded is false both when
// no document exists and when the document carries no count.
type Day struct {
	Date        string
	Recorded    bool
	Count       int
	Goal        int
	CostPerUnit float64
	CalsPerUnit int
}

// Saved returns how far under its limit a recorded day finished, floored at 0.
func (d Day) Saved() int {
	if !d.Recorded || d.Count >= d.Goal {
		return 0
	}
	return d.Goal - d.Count
}

func (d Day) IsDry() bool {
	return d.Recorded && d.Count == 0
}

// Normalize resolves a stored log against the profile defaults captured at load time.
func Normalize(l dailylog.DailyLog, p *user.Profile) Day {
	d := emptyDay(l.Date, p)
	if l.Count != nil {
		d.Recorded = true
		d.Count = *l.Count
	}
	if l.Goal != nil {
		d.Goal = *l.Goal
	}
	if l.CostPerUnit != nil {
		d.CostPerUnit = *l.CostPerUnit
	}
	if l.CalsPerUnit != nil {
		d.CalsPerUnit = *l.CalsPerUnit
	}
	return d
}

func emptyDay(date string, p *user.Profile) Day {
	return Day{
		Date:        date,
		Goal:        p.Goal(),
		CostPerUnit: p.Cost(),
		CalsPerUnit: p.Cals(),
	}
}

// Timeline indexes normalized days by date.
type Timeline struct {
	profile *user.Profile
	days    map[string]Day
}

func NewTimeline(logs []dailylog.DailyLog, p *user.Profile) *Timeline {
	t := &Timeline{profile: p, days: make(map[string]Day, len(logs))}
	for _, l := range logs {
		t.days[l.Date] = Normalize(l, p)
	}
	return t
}

// At returns the day for date; dates without a document come back unrecorded
// with the profile defaults.
func (t *Timeline) At(date string) Day {
	if d, ok := t.days[date]; ok {
		return d
	}
	return emptyDay(date, t.profile)
}

// Recorded returns recorded days in ascending date order.
func (t *Timeline) Recorded() []Day {
	out := make([]Day, 0, len(t.days))
	for _, d := range t.days {
		if d.Recorded {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
