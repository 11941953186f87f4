package models

import "time"

// Streak holds the user's abstinence clock. The effective day count is derived
// from StartedAt at read time -- floor(elapsed seconds / 86400) -- so no job
// ever has to tick a counter. CurrentStreak/MaxStreak are legacy columns kept
// for backward compatibility with exported data; MaxStreak still serves as the
// all-time high-water mark, refreshed on reset.
type Streak struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	StartedAt *time.Time `json:"started_at,omitempty"` // nil = not started

	CurrentStreak int `json:"current_streak" gorm:"default:0"`
	MaxStreak     int `json:"max_streak" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
