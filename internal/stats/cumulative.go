package stats

import (
	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/dates"
	"sammyAPI/internal/user"
)

// CumulativeStart picks the first day of a cumulative series. earliestLog is
// only consulted for range=all when the profile has no registration date.
func CumulativeStart(p *user.Profile, rng Range, anchor, earliestLog string) string {
	registered := p.Registered()

	var start string
	switch rng {
	case RangeAll:
		start = registered
		if start == "" {
			start = earliestLog
		}
		if start == "" {
			start = anchor
		}
	default:
		start = dates.AddDays(anchor, -(CumulativeWindowDays - 1))
	}
	return dates.Max(start, registered)
}

// Cumulative walks every calendar day from start to anchor inclusive and
// accumulates comparison minus actual for recorded days. Unrecorded days
// contribute zero.
func Cumulative(p *user.Profile, logs []dailylog.DailyLog, mode Mode, start, anchor string) *CumulativeSavings {
	tl := NewTimeline(logs, p)
	out := &CumulativeSavings{
		Series:         []CumulativePoint{},
		HasTypicalWeek: p.HasTypicalWeek(),
	}

	days := 0
	if dates.Valid(start) && dates.Valid(anchor) {
		days = dates.DaysBetween(start, anchor) + 1
	}

	running := 0
	for i := 0; i < days; i++ {
		date := dates.AddDays(start, i)
		d := tl.At(date)

		daily := 0
		if d.Recorded {
			daily = comparison(p, d, mode) - d.Count
		}
		running += daily

		out.Series = append(out.Series, CumulativePoint{Date: date, Cumulative: running, Daily: daily})
	}

	out.Summary.TotalSaved = running
	out.Summary.TotalDays = len(out.Series)
	if out.Summary.TotalDays >= 7 {
		weeks := float64(out.Summary.TotalDays) / 7
		out.Summary.AvgPerWeek = roundTo(float64(running)/weeks, 1)
	}
	return out
}

func comparison(p *user.Profile, d Day, mode Mode) int {
	if mode == ModeBenchmark {
		if baseline, ok := p.Baseline(d.Date); ok {
			return baseline
		}
		return p.Goal()
	}
	return d.Goal
}
