package models

import "time"

// Habit lifecycle states.
const (
	HabitChallenge   = "challenge"   // first 30 days
	HabitMaintenance = "maintenance" // survived the challenge window
	HabitArchived    = "archived"
)

// HabitUnlockStreak is the streak length at which a habit graduates to
// maintenance and unlocks one more habit slot.
const HabitUnlockStreak = 30

// BaseHabitSlots is how many concurrent non-archived habits a fresh account gets.
const BaseHabitSlots = 1

// UserHabit is a continuity challenge: check it every day, keep the chain alive.
type UserHabit struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_user_habit_slug" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Title string `gorm:"not null" json:"title"`
	Slug  string `gorm:"not null;uniqueIndex:idx_user_habit_slug" json:"slug"`

	Status        string `gorm:"not null;default:challenge" json:"status"`
	CurrentStreak int    `json:"current_streak" gorm:"default:0"`
	LongestStreak int    `json:"longest_streak" gorm:"default:0"`
	TotalChecks   int    `json:"total_checks" gorm:"default:0"`

	StartedAt time.Time    `json:"started_at" gorm:"autoCreateTime"`
	Checks    []HabitCheck `gorm:"foreignKey:HabitID" json:"-"`

	Timestamps
}

// HabitCheck is one checked day for a habit, unique per (habit, date).
type HabitCheck struct {
	ID      string    `gorm:"primaryKey;type:uuid" json:"id"`
	HabitID string    `gorm:"not null;uniqueIndex:idx_habit_check_date" json:"habit_id"`
	Habit   UserHabit `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
	Date    string    `gorm:"not null;uniqueIndex:idx_habit_check_date" json:"date"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
