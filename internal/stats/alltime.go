package stats

import (
	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/user"
)

// AllTime totals savings against the typical week since registration. Only
// recorded days whose weekday has a baseline count, and only positive savings.
func AllTime(p *user.Profile, logs []dailylog.DailyLog) *AllTimeTotals {
	registered := p.Registered()
	out := &AllTimeTotals{HasTypicalWeek: p.HasTypicalWeek()}

	var money float64
	for _, l := range logs {
		if registered != "" && l.Date < registered {
			continue
		}
		d := Normalize(l, p)
		if !d.Recorded {
			continue
		}
		out.TrackedDays++
		if d.Count == 0 {
			out.DryDays++
		}

		baseline, ok := p.Baseline(d.Date)
		if !ok || baseline <= d.Count {
			continue
		}
		saved := baseline - d.Count
		out.DrinksSaved += saved
		money += float64(saved) * d.CostPerUnit
		out.CaloriesCut += saved * d.CalsPerUnit
	}
	out.MoneySaved = roundTo(money, 2)
	return out
}
