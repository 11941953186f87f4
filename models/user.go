package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the account record. The password credential lives directly on the
// row; every other table in the schema hangs off User.ID with cascade delete.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `gorm:"not null" json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`

	Timestamps
}

// Session is an opaque server-side session. The token travels in the
// nofap_session cookie (or as a Bearer token for non-browser clients).
type Session struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
