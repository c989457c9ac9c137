package chat

import (
	"fmt"
	"strings"

	"sammyAPI/internal/stats"
	"sammyAPI/internal/user"
)

const SystemPrompt = `You are Sammy, a friendly coach helping someone drink less alcohol.
Be supportive and concrete. Never shame the user. Keep replies under 120 words.
Use the tracking data below when it is relevant.`

const SummaryPrompt = "Write a two-sentence encouraging summary of my recent progress."

// Input is everything the prompt context is built from.
type Input struct {
	Anchor        string
	Settings      *user.Settings
	Overview      *stats.Overview
	Cumulative    *stats.CumulativeSavings
	CurrentStreak int
}

// recentDays is how many trend entries are spelled out in the context.
const recentDays = 7

// BuildContext renders tracking data as plain text for the assistant prompt.
func BuildContext(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Today is %s.\n", in.Anchor)

	if s := in.Settings; s != nil {
		fmt.Fprintf(&b, "Daily limit: %d drinks. Average drink: $%.2f, %d kcal.\n",
			s.DailyGoal, s.AvgDrinkCost, s.AvgDrinkCals)
		if s.RegisteredDate != "" {
			fmt.Fprintf(&b, "Tracking since %s.\n", s.RegisteredDate)
		}
	}

	if o := in.Overview; o != nil {
		fmt.Fprintf(&b, "Today so far: %d of %d.\n", o.Today.Count, o.Today.Limit)
		fmt.Fprintf(&b, "Last 90 days: saved $%.2f and %d kcal. Dry streak: %d days.\n",
			o.Insights.MoneySaved, o.Insights.CaloriesCut, o.Insights.DryStreak)

		if len(o.Trends) > 0 {
			b.WriteString("Recent days:\n")
			for i, t := range o.Trends {
				if i == recentDays {
					break
				}
				status := "within limit"
				if t.Count > t.Limit {
					status = "over limit"
				} else if t.Count == 0 {
					status = "dry"
				}
				fmt.Fprintf(&b, "- %s: %d/%d (%s)\n", t.Date, t.Count, t.Limit, status)
			}
		} else {
			b.WriteString("No days logged yet.\n")
		}
	}

	fmt.Fprintf(&b, "Current dry streak: %d days.\n", in.CurrentStreak)

	if c := in.Cumulative; c != nil && c.Summary.TotalDays > 0 {
		fmt.Fprintf(&b, "Drinks saved against target over %d days: %d", c.Summary.TotalDays, c.Summary.TotalSaved)
		if c.Summary.AvgPerWeek != 0 {
			fmt.Fprintf(&b, " (%.1f per week)", c.Summary.AvgPerWeek)
		}
		b.WriteString(".\n")
	}

	return b.String()
}
