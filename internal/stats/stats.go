package stats

import "sammyAPI/internal/dailylog"

type Trend struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Limit int    `json:"limit"`
}

type Insights struct {
	MoneySaved  float64 `json:"moneySaved"`
	CaloriesCut int     `json:"caloriesCut"`
	DryStreak   int     `json:"dryStreak"`
}

type Overview struct {
	Today    dailylog.DayValue `json:"today"`
	Trends   []Trend           `json:"trends"`
	Insights Insights          `json:"insights"`
	Summary  string            `json:"summary,omitempty"`
}

type Mode string

const (
	ModeTarget    Mode = "target"
	ModeBenchmark Mode = "benchmark"
)

type Range string

const (
	Range90d Range = "90d"
	RangeAll Range = "all"
)

type CumulativePoint struct {
	Date       string `json:"date"`
	Cumulative int    `json:"cumulative"`
	Daily      int    `json:"daily"`
}

type CumulativeSummary struct {
	TotalSaved int     `json:"totalSaved"`
	TotalDays  int     `json:"totalDays"`
	AvgPerWeek float64 `json:"avgPerWeek"`
}

type CumulativeSavings struct {
	Series         []CumulativePoint `json:"series"`
	Summary        CumulativeSummary `json:"summary"`
	HasTypicalWeek bool              `json:"hasTypicalWeek"`
}

type AllTimeTotals struct {
	DrinksSaved    int     `json:"drinksSaved"`
	MoneySaved     float64 `json:"moneySaved"`
	CaloriesCut    int     `json:"caloriesCut"`
	TrackedDays    int     `json:"trackedDays"`
	DryDays        int     `json:"dryDays"`
	HasTypicalWeek bool    `json:"hasTypicalWeek"`
}

const (
	// OverviewWindowDays is how far back the dashboard overview reads.
	OverviewWindowDays = 90
	// CumulativeWindowDays is the inclusive length of the 90d cumulative range.
	CumulativeWindowDays = 90
	// CurrentStreakLookbackDays bounds the current streak walk.
	CurrentStreakLookbackDays = 365
	// LongestStreakFetchLimit bounds the records scanned for the longest streak.
	LongestStreakFetchLimit = 730
)
