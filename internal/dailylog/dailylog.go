package dailylog

import "time"

// DailyLog is one user's entry for one calendar date. Count is nil when the
// document exists only to carry a chat counter or a planned goal; such a
// document is not a habit record.
type DailyLog struct {
	Date        string    `json:"date" firestore:"date"`
	Count       *int      `json:"count,omitempty" firestore:"count,omitempty"`
	Goal        *int      `json:"goal,omitempty" firestore:"goal,omitempty"`
	CostPerUnit *float64  `json:"costPerUnit,omitempty" firestore:"costPerUnit,omitempty"`
	CalsPerUnit *int      `json:"calsPerUnit,omitempty" firestore:"calsPerUnit,omitempty"`
	ChatCount   int       `json:"chatCount" firestore:"chatCount"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Snapshot holds the profile constants in effect when a log was written.
type Snapshot struct {
	Goal        int
	CostPerUnit float64
	CalsPerUnit int
}

// Query selects logs by inclusive date bounds. Empty bounds are open.
type Query struct {
	From       string
	To         string
	Limit      int
	Descending bool
}

func (l *DailyLog) HasCount() bool {
	return l.Count != nil
}

// ApplySnapshot fills the conversion fields that are still unset. Values
// already on the log are historical and are never overwritten.
func (l *DailyLog) ApplySnapshot(s Snapshot) {
	if l.Goal == nil {
		l.Goal = IntPtr(s.Goal)
	}
	if l.CostPerUnit == nil {
		cost := s.CostPerUnit
		l.CostPerUnit = &cost
	}
	if l.CalsPerUnit == nil {
		l.CalsPerUnit = IntPtr(s.CalsPerUnit)
	}
}

func (l DailyLog) Clone() DailyLog {
	c := l
	if l.Count != nil {
		c.Count = IntPtr(*l.Count)
	}
	if l.Goal != nil {
		c.Goal = IntPtr(*l.Goal)
	}
	if l.CostPerUnit != nil {
		cost := *l.CostPerUnit
		c.CostPerUnit = &cost
	}
	if l.CalsPerUnit != nil {
		c.CalsPerUnit = IntPtr(*l.CalsPerUnit)
	}
	return c
}

func IntPtr(v int) *int {
	return &v
}
