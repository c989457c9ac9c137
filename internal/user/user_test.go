package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sammyAPI/internal/dailylog"
)

func TestDefaultsWhenUnset(t *testing.T) {
	var p *Profile
	assert.Equal(t, DefaultDailyGoal, p.Goal())
	assert.Equal(t, DefaultAvgDrinkCost, p.Cost())
	assert.Equal(t, DefaultAvgDrinkCals, p.Cals())

	zero := 0
	p = &Profile{DailyGoal: &zero}
	assert.Equal(t, 0, p.Goal(), "explicit zero goal must not fall back to the default")
}

func TestSnapshotForUsesWeeklyTargetOnlyInsidePlannedWeek(t *testing.T) {
	goal := 3
	p := &Profile{
		DailyGoal:           &goal,
		WeeklyTargets:       map[string]int{"wednesday": 1},
		WeeklyPlanWeekStart: "2024-01-01",
	}

	assert.Equal(t, 1, p.SnapshotFor("2024-01-03").Goal)
	assert.Equal(t, 3, p.SnapshotFor("2024-01-04").Goal, "thursday has no target")
	assert.Equal(t, 3, p.SnapshotFor("2024-01-10").Goal, "next week is outside the plan")
}

func TestUnlockIsIdempotent(t *testing.T) {
	p := &Profile{}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	added := p.Unlock([]UnlockEvent{{ID: "dry_1", UnlockedAt: now}, {ID: "dry_1", UnlockedAt: now}})
	require.Len(t, added, 1)

	added = p.Unlock([]UnlockEvent{{ID: "dry_1", UnlockedAt: now.Add(time.Hour)}, {ID: "dry_3", UnlockedAt: now}})
	require.Len(t, added, 1)
	assert.Equal(t, "dry_3", added[0].ID)
	assert.Len(t, p.Achievements.UnlockedMilestones, 2)

	at, ok := p.UnlockedAt("dry_1")
	assert.True(t, ok)
	assert.Equal(t, now, at, "first unlock time is kept")
}

func TestCloneDoesNotAlias(t *testing.T) {
	p := Profile{
		DailyGoal:   dailylog.IntPtr(2),
		TypicalWeek: map[string]int{"monday": 4},
		FCMTokens:   []string{"a"},
	}
	c := p.Clone()
	*c.DailyGoal = 9
	c.TypicalWeek["monday"] = 0
	c.AddToken("b")

	assert.Equal(t, 2, *p.DailyGoal)
	assert.Equal(t, 4, p.TypicalWeek["monday"])
	assert.Equal(t, []string{"a"}, p.FCMTokens)
}

func TestRegisteredNormalizesTimestamps(t *testing.T) {
	assert.Equal(t, "2024-03-01", (&Profile{RegisteredDate: "2024-03-01"}).Registered())
	assert.Equal(t, "2024-03-01", (&Profile{RegisteredDate: "2024-03-01T09:30:00.000Z"}).Registered())
	assert.Empty(t, (&Profile{RegisteredDate: "March 1st"}).Registered())
	assert.Empty(t, (&Profile{RegisteredDate: "2024-3-1"}).Registered())
	assert.Empty(t, (&Profile{}).Registered())
}
