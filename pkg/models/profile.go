package models

// DefaultDailyGoal is the mastery goal assigned to new and reset profiles.
const DefaultDailyGoal = 10

// Profile holds per-user settings
type Profile struct {
	UserID    int64 `json:"user_id" db:"user_id"`
	DailyGoal int   `json:"daily_goal" db:"daily_goal"`
}
