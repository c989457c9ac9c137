package milestone

import (
	"math"
	"time"

	"sammyAPI/internal/user"
)

// Evaluate measures every definition against s. A milestone already recorded
// on the profile stays unlocked even if its value has since dropped. The
// second return value lists definitions crossed now but not yet recorded.
func Evaluate(defs []Definition, s Stats, p *user.Profile) ([]Status, []Definition) {
	statuses := make([]Status, 0, len(defs))
	var crossed []Definition

	for _, def := range defs {
		value := s.ValueFor(def.Type)
		reached := value >= def.Threshold

		st := Status{
			Definition:   def,
			CurrentValue: value,
			Progress:     progress(value, def.Threshold),
			IsUnlocked:   reached,
		}
		if at, ok := p.UnlockedAt(def.ID); ok {
			st.IsUnlocked = true
			st.UnlockedAt = &at
		} else if reached {
			crossed = append(crossed, def)
		}
		statuses = append(statuses, st)
	}
	return statuses, crossed
}

// MarkUnlocked stamps the appended unlock events onto their statuses and
// returns those statuses.
func MarkUnlocked(statuses []Status, events []user.UnlockEvent) []Status {
	at := make(map[string]time.Time, len(events))
	for _, ev := range events {
		at[ev.ID] = ev.UnlockedAt
	}

	unlocked := []Status{}
	for i := range statuses {
		t, ok := at[statuses[i].ID]
		if !ok {
			continue
		}
		statuses[i].IsUnlocked = true
		statuses[i].UnlockedAt = &t
		unlocked = append(unlocked, statuses[i])
	}
	return unlocked
}

func progress(value, threshold float64) int {
	if threshold <= 0 {
		return 100
	}
	pct := int(math.Round(value / threshold * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
