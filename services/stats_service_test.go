package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sammyAPI/internal/chat"
	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/stats"
	"sammyAPI/internal/user"
)

func TestGetStatsOverview(t *testing.T) {
	f := newFixture(t, "2024-05-15")
	ctx := context.Background()
	f.seedProfile(t, "2024-05-01", nil)
	f.seedLog(t, "2024-05-13", 0, 2)
	f.seedLog(t, "2024-05-14", 0, 2)
	f.seedLog(t, "2024-05-15", 1, 2)
	// Outside the 90-day window.
	f.seedLog(t, "2024-01-01", 0, 2)

	overview, err := f.stats.GetStats(ctx, testUser, "", false)
	require.NoError(t, err)
	assert.Equal(t, dailylog.DayValue{Count: 1, Limit: 2}, overview.Today)
	require.Len(t, overview.Trends, 3)
	assert.Equal(t, "2024-05-15", overview.Trends[0].Date)
	assert.Equal(t, 50.0, overview.Insights.MoneySaved)
	assert.Equal(t, 750, overview.Insights.CaloriesCut)
	assert.Equal(t, 0, overview.Insights.DryStreak)
	assert.Empty(t, overview.Summary)
	assert.Equal(t, 0, f.completer.calls)
}

func TestGetStatsSummaryDegradesOnFailure(t *testing.T) {
	f := newFixture(t, "2024-05-15")
	ctx := context.Background()

	overview, err := f.stats.GetStats(ctx, testUser, "2024-05-15", true)
	require.NoError(t, err)
	assert.Equal(t, "Nice work.", overview.Summary)
	assert.Contains(t, f.completer.system, "Today is 2024-05-15.")

	f.completer.err = errors.New("upstream down")
	overview, err = f.stats.GetStats(ctx, testUser, "2024-05-15", true)
	require.NoError(t, err)
	assert.Empty(t, overview.Summary)

	f.stats.completer = chat.Disabled{}
	overview, err = f.stats.GetStats(ctx, testUser, "2024-05-15", true)
	require.NoError(t, err)
	assert.Empty(t, overview.Summary)
}

func TestGetCumulativeValidatesParams(t *testing.T) {
	f := newFixture(t, "2024-05-15")
	ctx := context.Background()

	var verr *ValidationError
	_, err := f.stats.GetCumulative(ctx, testUser, "", "best", "90d")
	assert.ErrorAs(t, err, &verr)
	_, err = f.stats.GetCumulative(ctx, testUser, "", "target", "1y")
	assert.ErrorAs(t, err, &verr)
}

func TestGetCumulativeRanges(t *testing.T) {
	f := newFixture(t, "2024-05-15")
	ctx := context.Background()
	f.seedProfile(t, "2024-05-10", func(p *user.Profile) {
		p.TypicalWeek = map[string]int{"wednesday": 5}
	})
	f.seedLog(t, "2024-05-09", 0, 2)
	f.seedLog(t, "2024-05-10", 0, 2)
	f.seedLog(t, "2024-05-15", 1, 2)

	out, err := f.stats.GetCumulative(ctx, testUser, "2024-05-15", "target", "90d")
	require.NoError(t, err)
	require.Len(t, out.Series, 6)
	assert.Equal(t, "2024-05-10", out.Series[0].Date)
	assert.Equal(t, 3, out.Summary.TotalSaved)
	assert.True(t, out.HasTypicalWeek)

	out, err = f.stats.GetCumulative(ctx, testUser, "2024-05-15", "benchmark", "all")
	require.NoError(t, err)
	// Friday falls back to the goal of 2, Wednesday compares against 5.
	assert.Equal(t, 2+4, out.Summary.TotalSaved)
}

func TestGetCumulativeAllWithoutRegistrationStartsAtEarliestLog(t *testing.T) {
	f := newFixture(t, "2024-05-15")
	ctx := context.Background()
	f.seedProfile(t, "", nil)
	f.seedLog(t, "2024-05-12", 0, 2)

	out, err := f.stats.GetCumulative(ctx, testUser, "2024-05-15", "target", "all")
	require.NoError(t, err)
	require.Len(t, out.Series, 4)
	assert.Equal(t, "2024-05-12", out.Series[0].Date)
}

func TestGetCumulativeWithTimestampRegistration(t *testing.T) {
	f := newFixture(t, "2024-03-05")
	ctx := context.Background()
	f.seedProfile(t, "2024-03-01T09:30:00.000Z", nil)
	f.seedLog(t, "2024-03-01", 0, 2)

	done := make(chan struct{})
	var out *stats.CumulativeSavings
	var err error
	go func() {
		defer close(done)
		out, err = f.stats.GetCumulative(ctx, testUser, "2024-03-05", "target", "all")
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("GetCumulative did not return")
	}
	require.NoError(t, err)
	require.Len(t, out.Series, 5)
	assert.Equal(t, "2024-03-01", out.Series[0].Date)
	assert.Equal(t, 2, out.Summary.TotalSaved)
}

func TestStreaks(t *testing.T) {
	f := newFixture(t, "2024-05-15")
	ctx := context.Background()
	f.seedProfile(t, "2024-05-01", nil)
	for _, d := range []string{"2024-05-02", "2024-05-03", "2024-05-04", "2024-05-13", "2024-05-14"} {
		f.seedLog(t, d, 0, 2)
	}

	current, err := f.stats.CurrentStreak(ctx, testUser, "2024-05-15")
	require.NoError(t, err)
	assert.Equal(t, 2, current)

	longest, err := f.stats.LongestStreak(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 3, longest)
}

func TestGetAllTime(t *testing.T) {
	f := newFixture(t, "2024-05-15")
	ctx := context.Background()
	f.seedProfile(t, "2024-05-01", func(p *user.Profile) {
		p.TypicalWeek = map[string]int{"wednesday": 4}
	})
	f.seedLog(t, "2024-05-15", 1, 2)
	f.seedLog(t, "2024-05-14", 0, 2)

	totals, err := f.stats.GetAllTime(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 3, totals.DrinksSaved)
	assert.Equal(t, 30.0, totals.MoneySaved)
	assert.Equal(t, 2, totals.TrackedDays)
	assert.Equal(t, 1, totals.DryDays)
}
