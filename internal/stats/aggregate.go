package stats

import (
	"math"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/dates"
	"sammyAPI/internal/user"
)

// OverviewStart is the first date read for an overview anchored at anchor.
func OverviewStart(anchor string) string {
	return dates.AddDays(anchor, -OverviewWindowDays)
}

// Aggregate builds the dashboard overview from the logs fetched for the
// overview window.
func Aggregate(p *user.Profile, logs []dailylog.DailyLog, anchor string) *Overview {
	tl := NewTimeline(logs, p)
	recorded := tl.Recorded()

	trends := make([]Trend, 0, len(recorded))
	var money float64
	var cals int
	for i := len(recorded) - 1; i >= 0; i-- {
		d := recorded[i]
		trends = append(trends, Trend{Date: d.Date, Count: d.Count, Limit: d.Goal})

		saved := d.Saved()
		money += float64(saved) * d.CostPerUnit
		cals += saved * d.CalsPerUnit
	}

	today := tl.At(anchor)

	return &Overview{
		Today:  dailylog.DayValue{Count: today.Count, Limit: today.Goal},
		Trends: trends,
		Insights: Insights{
			MoneySaved:  roundTo(money, 2),
			CaloriesCut: cals,
			DryStreak:   DryStreak(tl, anchor, dates.Max(p.Registered(), OverviewStart(anchor))),
		},
	}
}

// DryStreak walks backwards from anchor counting explicit zero-count days. An
// anchor without a record is skipped rather than treated as a break. The walk
// stops at the first non-zero day, the first unrecorded day, or before floor.
func DryStreak(tl *Timeline, anchor, floor string) int {
	date := anchor
	if !tl.At(anchor).Recorded {
		date = dates.AddDays(anchor, -1)
	}

	streak := 0
	for floor == "" || date >= floor {
		if !tl.At(date).IsDry() {
			break
		}
		streak++
		date = dates.AddDays(date, -1)
	}
	return streak
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
