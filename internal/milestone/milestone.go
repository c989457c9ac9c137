package milestone

import "time"

type Type string

const (
	TypeDryStreak   Type = "dry_streak"
	TypeDrinksSaved Type = "drinks_saved"
	TypeMoneySaved  Type = "money_saved"
)

type Definition struct {
	ID        string  `json:"id"`
	Type      Type    `json:"type"`
	Threshold float64 `json:"threshold"`
	Label     string  `json:"label"`
	Icon      string  `json:"icon"`
}

// Definitions is the fixed milestone table, ordered by type then threshold.
var Definitions = []Definition{
	{ID: "dry_streak_1", Type: TypeDryStreak, Threshold: 1, Label: "First Dry Day", Icon: "🌱"},
	{ID: "dry_streak_3", Type: TypeDryStreak, Threshold: 3, Label: "3 Days Strong", Icon: "💧"},
	{ID: "dry_streak_7", Type: TypeDryStreak, Threshold: 7, Label: "One Dry Week", Icon: "🗓️"},
	{ID: "dry_streak_14", Type: TypeDryStreak, Threshold: 14, Label: "Two Week Run", Icon: "🔥"},
	{ID: "dry_streak_30", Type: TypeDryStreak, Threshold: 30, Label: "Dry Month", Icon: "🏅"},
	{ID: "dry_streak_90", Type: TypeDryStreak, Threshold: 90, Label: "Quarter Clear", Icon: "🏆"},
	{ID: "dry_streak_365", Type: TypeDryStreak, Threshold: 365, Label: "A Year Dry", Icon: "👑"},

	{ID: "drinks_saved_10", Type: TypeDrinksSaved, Threshold: 10, Label: "10 Drinks Skipped", Icon: "🥤"},
	{ID: "drinks_saved_50", Type: TypeDrinksSaved, Threshold: 50, Label: "50 Drinks Skipped", Icon: "🧃"},
	{ID: "drinks_saved_100", Type: TypeDrinksSaved, Threshold: 100, Label: "100 Drinks Skipped", Icon: "🫖"},
	{ID: "drinks_saved_500", Type: TypeDrinksSaved, Threshold: 500, Label: "500 Drinks Skipped", Icon: "🌊"},

	{ID: "money_saved_50", Type: TypeMoneySaved, Threshold: 50, Label: "First $50", Icon: "💵"},
	{ID: "money_saved_250", Type: TypeMoneySaved, Threshold: 250, Label: "$250 Saved", Icon: "💰"},
	{ID: "money_saved_1000", Type: TypeMoneySaved, Threshold: 1000, Label: "$1,000 Saved", Icon: "🏦"},
}

// Stats are the lifetime values milestones are measured against.
type Stats struct {
	LongestStreak int     `json:"longestStreak"`
	CurrentStreak int     `json:"currentStreak"`
	DrinksSaved   int     `json:"drinksSaved"`
	MoneySaved    float64 `json:"moneySaved"`
	CaloriesCut   int     `json:"caloriesCut"`
}

func (s Stats) ValueFor(t Type) float64 {
	switch t {
	case TypeDryStreak:
		return float64(s.LongestStreak)
	case TypeDrinksSaved:
		return float64(s.DrinksSaved)
	case TypeMoneySaved:
		return s.MoneySaved
	}
	return 0
}

type Status struct {
	Definition
	CurrentValue float64    `json:"currentValue"`
	Progress     int        `json:"progress"`
	IsUnlocked   bool       `json:"isUnlocked"`
	UnlockedAt   *time.Time `json:"unlockedAt,omitempty"`
}

type Result struct {
	Milestones    []Status `json:"milestones"`
	NewlyUnlocked []Status `json:"newlyUnlocked"`
	Stats         Stats    `json:"stats"`
}
