package stats

import (
	"sort"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/dates"
	"sammyAPI/internal/user"
)

// CurrentStreakStart is the first date read for a current streak at anchor.
func CurrentStreakStart(anchor string) string {
	return dates.AddDays(anchor, -CurrentStreakLookbackDays)
}

// CurrentStreak counts consecutive explicit dry days ending at anchor, or at
// the day before when anchor has no record yet.
func CurrentStreak(p *user.Profile, logs []dailylog.DailyLog, anchor string) int {
	tl := NewTimeline(logs, p)
	return DryStreak(tl, anchor, dates.Max(p.Registered(), CurrentStreakStart(anchor)))
}

// LongestStreak scans records in date order. A gap restarts the run at one,
// a non-zero day resets it to zero.
func LongestStreak(p *user.Profile, logs []dailylog.DailyLog) int {
	registered := p.Registered()

	days := make([]Day, 0, len(logs))
	for _, l := range logs {
		if registered != "" && l.Date < registered {
			continue
		}
		d := Normalize(l, p)
		if d.Recorded {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	longest, run := 0, 0
	prev := ""
	for _, d := range days {
		switch {
		case d.Count != 0:
			run = 0
		case prev != "" && dates.Next(prev, d.Date):
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d.Date
	}
	return longest
}
