package user

type Settings struct {
	DailyGoal      int     `json:"dailyGoal"`
	AvgDrinkCost   float64 `json:"avgDrinkCost"`
	AvgDrinkCals   int     `json:"avgDrinkCals"`
	RegisteredDate string  `json:"registeredDate"`
}

type UpdateSettingsRequest struct {
	DailyGoal    *int     `json:"dailyGoal,omitempty"`
	AvgDrinkCost *float64 `json:"avgDrinkCost,omitempty"`
	AvgDrinkCals *int     `json:"avgDrinkCals,omitempty"`
}

type WeeklyPlan struct {
	TypicalWeek   map[string]int `json:"typicalWeek"`
	WeeklyTargets map[string]int `json:"weeklyTargets"`
	WeekStart     string         `json:"weekStart,omitempty"`
}

type WeeklyPlanRequest struct {
	TypicalWeek   map[string]int `json:"typicalWeek,omitempty"`
	WeeklyTargets map[string]int `json:"weeklyTargets,omitempty"`
	Date          string         `json:"date,omitempty"`
}

type RegisterDeviceRequest struct {
	Token string `json:"token"`
}

func (p *Profile) Settings() *Settings {
	return &Settings{
		DailyGoal:      p.Goal(),
		AvgDrinkCost:   p.Cost(),
		AvgDrinkCals:   p.Cals(),
		RegisteredDate: p.Registered(),
	}
}
