package models

import "time"

// Persona keys for the AI coach. Stored on the profile, picked in settings.
const (
	PersonaMentor = "mentor"
	PersonaFriend = "friend"
	PersonaDrill  = "drill"
)

// UserProfile tracks gamified progression for each user (denormalized for performance).
// Invariant: MoteLevel is always the rounded mean of the four attributes, clamped
// to [-100, 100], recomputed on every write that touches an attribute.
type UserProfile struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// Core progression
	TotalXP int64 `json:"total_xp" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"`

	// Four bounded attributes, each in [-100, 100]
	Confidence  int `json:"confidence" gorm:"default:0"`
	Vitality    int `json:"vitality" gorm:"default:0"`
	Calmness    int `json:"calmness" gorm:"default:0"`
	Cleanliness int `json:"cleanliness" gorm:"default:0"`

	// Derived aggregate + high-water mark
	MoteLevel    int `json:"mote_level" gorm:"default:0"`
	MaxMoteLevel int `json:"max_mote_level" gorm:"default:0"`

	LastResetAt *time.Time `json:"last_reset_at,omitempty"`

	Persona   string `json:"persona" gorm:"default:mentor"`
	AvatarURL string `json:"avatar_url,omitempty"`

	Timestamps
}

// Attributes returns the four attribute values in canonical order.
func (p *UserProfile) Attributes() [4]int {
	return [4]int{p.Confidence, p.Vitality, p.Calmness, p.Cleanliness}
}

// SetAttributes writes the four attribute values back in canonical order.
func (p *UserProfile) SetAttributes(a [4]int) {
	p.Confidence, p.Vitality, p.Calmness, p.Cleanliness = a[0], a[1], a[2], a[3]
}
