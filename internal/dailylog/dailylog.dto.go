package dailylog

type IncrementRequest struct {
	Date  string `json:"date"`
	Count *int   `json:"count"`
}

type SetRequest struct {
	Date     string `json:"date"`
	NewCount *int   `json:"newCount,omitempty"`
	NewGoal  *int   `json:"newGoal,omitempty"`
	DevMode  bool   `json:"devMode,omitempty"`
}

type DayValue struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

type RangeDay struct {
	Today     DayValue `json:"today"`
	HasRecord bool     `json:"hasRecord"`
}
