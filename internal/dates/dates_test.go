package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddDaysCrossesMonthAndLeapDay(t *testing.T) {
	assert.Equal(t, "2024-03-01", AddDays("2024-02-29", 1))
	assert.Equal(t, "2024-02-29", AddDays("2024-03-01", -1))
	assert.Equal(t, "2023-12-31", AddDays("2024-01-01", -1))
	assert.Equal(t, "garbage", AddDays("garbage", 3))
}

func TestNextAndDaysBetween(t *testing.T) {
	assert.True(t, Next("2024-01-31", "2024-02-01"))
	assert.False(t, Next("2024-01-01", "2024-01-03"))
	assert.Equal(t, 89, DaysBetween("2024-01-01", "2024-03-30"))
	assert.Equal(t, -2, DaysBetween("2024-01-03", "2024-01-01"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("2024-01-01"))
	assert.False(t, Valid("2024-1-1"))
	assert.False(t, Valid("2024-02-30"))
	assert.False(t, Valid(""))
}

func TestWeekdayAndWeekBounds(t *testing.T) {
	// 2024-01-03 was a Wednesday.
	assert.Equal(t, "wednesday", Weekday("2024-01-03"))
	assert.Equal(t, "2024-01-01", WeekStart("2024-01-03"))
	assert.Equal(t, "2024-01-07", WeekEnd("2024-01-03"))
	assert.Equal(t, "2024-01-01", WeekStart("2024-01-07"))
	assert.Equal(t, "2024-01-08", WeekStart("2024-01-08"))
}

func TestNormalizeWeekday(t *testing.T) {
	w, ok := NormalizeWeekday(" Friday ")
	assert.True(t, ok)
	assert.Equal(t, "friday", w)

	_, ok = NormalizeWeekday("funday")
	assert.False(t, ok)
}

func TestTodayUsesUTC(t *testing.T) {
	loc := time.FixedZone("east", 10*60*60)
	now := time.Date(2024, 5, 2, 3, 0, 0, 0, loc)
	assert.Equal(t, "2024-05-01", Today(now))
}

func TestMax(t *testing.T) {
	assert.Equal(t, "2024-02-01", Max("2024-01-01", "2024-02-01"))
	assert.Equal(t, "2024-01-01", Max("2024-01-01", ""))
	assert.Equal(t, "2024-01-01", Max("", "2024-01-01"))
}
