package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/dates"
	"sammyAPI/internal/user"
)

func rec(date string, count int) dailylog.DailyLog {
	return dailylog.DailyLog{Date: date, Count: dailylog.IntPtr(count)}
}

func withGoal(l dailylog.DailyLog, goal int) dailylog.DailyLog {
	l.Goal = dailylog.IntPtr(goal)
	return l
}

func profile(registered string) *user.Profile {
	return &user.Profile{RegisteredDate: registered}
}

func TestAggregateTrendsSortedDescendingWithoutDuplicates(t *testing.T) {
	logs := []dailylog.DailyLog{
		rec("2024-01-02", 1),
		rec("2024-01-05", 0),
		rec("2024-01-03", 4),
		{Date: "2024-01-04", ChatCount: 3},
	}

	out := Aggregate(profile(""), logs, "2024-01-05")

	require.Len(t, out.Trends, 3, "chat-only document is not a record")
	seen := map[string]bool{}
	for i, tr := range out.Trends {
		assert.False(t, seen[tr.Date], "duplicate date %s", tr.Date)
		seen[tr.Date] = true
		if i > 0 {
			assert.Greater(t, out.Trends[i-1].Date, tr.Date)
		}
	}
	assert.Equal(t, "2024-01-05", out.Trends[0].Date)
}

func TestAggregateTodayFallsBackToGlobalGoal(t *testing.T) {
	goal := 4
	p := &user.Profile{DailyGoal: &goal}

	out := Aggregate(p, []dailylog.DailyLog{rec("2024-01-01", 2)}, "2024-01-02")
	assert.Equal(t, dailylog.DayValue{Count: 0, Limit: 4}, out.Today)

	out = Aggregate(p, []dailylog.DailyLog{withGoal(rec("2024-01-02", 1), 3)}, "2024-01-02")
	assert.Equal(t, dailylog.DayValue{Count: 1, Limit: 3}, out.Today)
}

func TestAggregateSavingsUseSnapshotsAndIgnoreOverLimitDays(t *testing.T) {
	cost := 8.5
	cals := 100
	dry := withGoal(rec("2024-01-01", 0), 3)
	dry.CostPerUnit = &cost
	dry.CalsPerUnit = &cals

	logs := []dailylog.DailyLog{
		// 3 under the limit at 8.5 / 100 per unit
		dry,
		// over the limit, contributes nothing
		withGoal(rec("2024-01-02", 5), 2),
		// profile defaults: goal 2, cost 10, 150 cals
		rec("2024-01-03", 1),
	}

	out := Aggregate(profile(""), logs, "2024-01-03")
	assert.InDelta(t, 3*8.5+1*10.0, out.Insights.MoneySaved, 0.001)
	assert.Equal(t, 3*100+1*150, out.Insights.CaloriesCut)
}

func TestDryStreakIsZeroWithoutLogs(t *testing.T) {
	out := Aggregate(profile(""), nil, "2024-01-10")
	assert.Equal(t, 0, out.Insights.DryStreak)
	assert.Equal(t, 0, CurrentStreak(profile(""), nil, "2024-01-10"))
	assert.Equal(t, 0, LongestStreak(profile(""), nil))
}

func TestCurrentStreakBrokenByNonZeroAnchor(t *testing.T) {
	logs := []dailylog.DailyLog{
		rec("2024-01-01", 0),
		rec("2024-01-02", 0),
		rec("2024-01-03", 1),
	}
	p := profile("")

	assert.Equal(t, 0, CurrentStreak(p, logs, "2024-01-03"))
	assert.Equal(t, 2, CurrentStreak(p, logs, "2024-01-02"))
}

func TestCurrentStreakSkipsUnloggedAnchor(t *testing.T) {
	logs := []dailylog.DailyLog{rec("2024-01-01", 0), rec("2024-01-02", 0)}
	assert.Equal(t, 2, CurrentStreak(profile(""), logs, "2024-01-03"))
	assert.Equal(t, 0, CurrentStreak(profile(""), logs, "2024-01-04"), "a missing day breaks the streak")
}

func TestGoalOnlyDocumentIsNotADryDay(t *testing.T) {
	logs := []dailylog.DailyLog{
		rec("2024-01-01", 0),
		{Date: "2024-01-02", Goal: dailylog.IntPtr(1)},
		rec("2024-01-03", 0),
	}
	assert.Equal(t, 1, CurrentStreak(profile(""), logs, "2024-01-03"))
}

func TestLongestStreakGapBreaksContiguity(t *testing.T) {
	logs := []dailylog.DailyLog{rec("2024-01-01", 0), rec("2024-01-03", 0)}
	assert.Equal(t, 1, LongestStreak(profile(""), logs))
}

func TestLongestStreakTracksMaximumRun(t *testing.T) {
	logs := []dailylog.DailyLog{
		rec("2024-01-07", 0),
		rec("2024-01-01", 0),
		rec("2024-01-02", 0),
		rec("2024-01-03", 0),
		rec("2024-01-04", 2),
		rec("2024-01-05", 0),
		rec("2024-01-06", 0),
	}
	assert.Equal(t, 3, LongestStreak(profile(""), logs))
}

func TestRegistrationDateBoundsStreaksAndAllTime(t *testing.T) {
	p := profile("2024-01-02")
	p.TypicalWeek = map[string]int{}
	for d := "2023-12-25"; d <= "2024-01-07"; d = dates.AddDays(d, 1) {
		p.TypicalWeek[dates.Weekday(d)] = 3
	}
	logs := []dailylog.DailyLog{
		rec("2024-01-01", 0),
		rec("2024-01-02", 0),
		rec("2024-01-03", 0),
	}

	assert.Equal(t, 2, CurrentStreak(p, logs, "2024-01-03"))
	assert.Equal(t, 2, LongestStreak(p, logs))
	assert.Equal(t, 2, Aggregate(p, logs, "2024-01-03").Insights.DryStreak)

	totals := AllTime(p, logs)
	assert.Equal(t, 6, totals.DrinksSaved)
	assert.Equal(t, 2, totals.TrackedDays)
}

func TestAllTimeOnlyCountsDaysWithBaseline(t *testing.T) {
	// 2024-01-01 monday, 2024-01-02 tuesday.
	p := profile("")
	p.TypicalWeek = map[string]int{"monday": 4}

	totals := AllTime(p, []dailylog.DailyLog{
		rec("2024-01-01", 1),
		rec("2024-01-02", 0),
		rec("2024-01-08", 6),
	})

	assert.Equal(t, 3, totals.DrinksSaved)
	assert.InDelta(t, 30.0, totals.MoneySaved, 0.001)
	assert.Equal(t, 450, totals.CaloriesCut)
	assert.Equal(t, 3, totals.TrackedDays)
	assert.Equal(t, 1, totals.DryDays)
	assert.True(t, totals.HasTypicalWeek)
}

func TestCumulativeSumOfDailyEqualsLastCumulative(t *testing.T) {
	p := profile("2023-12-01")
	p.TypicalWeek = map[string]int{"monday": 5, "saturday": 1}
	logs := []dailylog.DailyLog{
		rec("2023-11-30", 0),
		rec("2023-12-04", 2),
		withGoal(rec("2023-12-09", 4), 1),
		rec("2024-01-01", 0),
		rec("2024-02-10", 7),
	}
	anchor := "2024-02-15"

	for _, mode := range []Mode{ModeTarget, ModeBenchmark} {
		for _, rng := range []Range{Range90d, RangeAll} {
			start := CumulativeStart(p, rng, anchor, "")
			out := Cumulative(p, logs, mode, start, anchor)

			require.NotEmpty(t, out.Series)
			sum := 0
			for _, pt := range out.Series {
				sum += pt.Daily
			}
			assert.Equal(t, sum, out.Series[len(out.Series)-1].Cumulative, "%s/%s", mode, rng)
			assert.Equal(t, sum, out.Summary.TotalSaved)
			assert.Equal(t, anchor, out.Series[len(out.Series)-1].Date)
		}
	}
}

func TestCumulativeStartClampsToRegistration(t *testing.T) {
	p := profile("2024-03-01")
	assert.Equal(t, "2024-03-01", CumulativeStart(p, Range90d, "2024-03-10", ""))
	assert.Equal(t, "2024-01-11", CumulativeStart(profile("2023-01-01"), Range90d, "2024-04-09", ""))
	assert.Equal(t, "2024-03-01", CumulativeStart(p, RangeAll, "2024-03-10", "2024-01-01"))
	assert.Equal(t, "2024-01-01", CumulativeStart(profile(""), RangeAll, "2024-03-10", "2024-01-01"))
	assert.Equal(t, "2024-03-10", CumulativeStart(profile(""), RangeAll, "2024-03-10", ""))
}

func TestCumulativeNinetyDayWindowLength(t *testing.T) {
	out := Cumulative(profile(""), nil, ModeTarget, CumulativeStart(profile(""), Range90d, "2024-04-09", ""), "2024-04-09")
	assert.Equal(t, 90, out.Summary.TotalDays)
	assert.Equal(t, 0, out.Summary.TotalSaved)
}

func TestCumulativeMissingDaysAreNeutralAndBadDaysNegative(t *testing.T) {
	logs := []dailylog.DailyLog{
		withGoal(rec("2024-01-01", 0), 2),
		withGoal(rec("2024-01-03", 5), 2),
	}
	out := Cumulative(profile(""), logs, ModeTarget, "2024-01-01", "2024-01-03")

	require.Len(t, out.Series, 3)
	assert.Equal(t, CumulativePoint{Date: "2024-01-01", Cumulative: 2, Daily: 2}, out.Series[0])
	assert.Equal(t, CumulativePoint{Date: "2024-01-02", Cumulative: 2, Daily: 0}, out.Series[1])
	assert.Equal(t, CumulativePoint{Date: "2024-01-03", Cumulative: -1, Daily: -3}, out.Series[2])
}

func TestCumulativeBenchmarkFallsBackToGlobalGoal(t *testing.T) {
	goal := 3
	p := &user.Profile{DailyGoal: &goal, TypicalWeek: map[string]int{"monday": 6}}
	logs := []dailylog.DailyLog{
		withGoal(rec("2024-01-01", 1), 1), // monday: 6 - 1
		withGoal(rec("2024-01-02", 1), 1), // tuesday: no baseline, 3 - 1
	}
	out := Cumulative(p, logs, ModeBenchmark, "2024-01-01", "2024-01-02")

	assert.Equal(t, 5, out.Series[0].Daily)
	assert.Equal(t, 2, out.Series[1].Daily)
	assert.True(t, out.HasTypicalWeek)
}

func TestAvgPerWeekZeroUnderSevenDays(t *testing.T) {
	logs := []dailylog.DailyLog{withGoal(rec("2024-01-01", 0), 10)}

	out := Cumulative(profile(""), logs, ModeTarget, "2024-01-01", "2024-01-06")
	assert.Equal(t, 10, out.Summary.TotalSaved)
	assert.Equal(t, 6, out.Summary.TotalDays)
	assert.Equal(t, 0.0, out.Summary.AvgPerWeek)

	out = Cumulative(profile(""), logs, ModeTarget, "2024-01-01", "2024-01-14")
	assert.Equal(t, 14, out.Summary.TotalDays)
	assert.Equal(t, 5.0, out.Summary.AvgPerWeek)
}

func TestCumulativeEmptyWhenStartAfterAnchor(t *testing.T) {
	out := Cumulative(profile("2024-02-01"), nil, ModeTarget, "2024-02-01", "2024-01-01")
	assert.Empty(t, out.Series)
	assert.Equal(t, 0, out.Summary.TotalDays)
}

func TestCumulativeInvalidBoundsProduceEmptySeries(t *testing.T) {
	out := Cumulative(profile(""), nil, ModeTarget, "2024-03-01T09:30:00.000Z", "2024-03-05")
	assert.Empty(t, out.Series)

	out = Cumulative(profile(""), nil, ModeTarget, "2024-03-01", "not-a-date")
	assert.Empty(t, out.Series)
}

func TestTimestampRegistrationStillBoundsByDay(t *testing.T) {
	p := profile("2024-03-01T09:30:00.000Z")
	logs := []dailylog.DailyLog{rec("2024-02-29", 0), rec("2024-03-01", 0), rec("2024-03-02", 0)}

	assert.Equal(t, "2024-03-01", CumulativeStart(p, RangeAll, "2024-03-05", ""))
	out := Cumulative(p, logs, ModeTarget, CumulativeStart(p, RangeAll, "2024-03-05", ""), "2024-03-05")
	assert.Len(t, out.Series, 5)

	// The registration day itself counts toward the streak.
	assert.Equal(t, 2, CurrentStreak(p, logs, "2024-03-02"))
}
