package models

import "time"

// Mission statuses.
const (
	MissionPending   = "pending"
	MissionCompleted = "completed"
)

// Attribute keys used by mission rewards.
const (
	AttrConfidence  = "confidence"
	AttrVitality    = "vitality"
	AttrCalmness    = "calmness"
	AttrCleanliness = "cleanliness"
)

// MissionDef: static catalog entry (code must stay stable, it is persisted on
// assigned missions).
type MissionDef struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XP          int64  `json:"xp"`
	Attribute   string `json:"attribute"` // which attribute gains a point on completion
}

// DailyMission: an assigned instance, up to 3 per user per date.
// pending -> completed exactly once; completion grants XP + one attribute point
// (doubled within 3 days of a reset).
type DailyMission struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index:idx_user_mission_date" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Date   string `gorm:"not null;index:idx_user_mission_date" json:"date"`

	MissionCode string `gorm:"not null" json:"mission_code"`
	Status      string `gorm:"not null;default:pending" json:"status"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// MissionCatalog: the fixed mission pool daily assignments draw from.
var MissionCatalog = []MissionDef{
	{
		Code:        "COLD_SHOWER",
		Title:       "Cold Shower",
		Description: "End your shower with 60 seconds of cold water",
		XP:          30,
		Attribute:   AttrVitality,
	},
	{
		Code:        "MORNING_WALK",
		Title:       "Morning Walk",
		Description: "Take a 15 minute walk before noon",
		XP:          25,
		Attribute:   AttrVitality,
	},
	{
		Code:        "MEDITATE_10",
		Title:       "Meditate",
		Description: "Sit through a 10 minute meditation",
		XP:          30,
		Attribute:   AttrCalmness,
	},
	{
		Code:        "BREATHWORK",
		Title:       "Breathwork",
		Description: "Complete one breathing exercise round",
		XP:          20,
		Attribute:   AttrCalmness,
	},
	{
		Code:        "WORKOUT",
		Title:       "Work Out",
		Description: "Finish a full workout session",
		XP:          40,
		Attribute:   AttrVitality,
	},
	{
		Code:        "JOURNAL_ENTRY",
		Title:       "Write It Down",
		Description: "Write at least three sentences in your journal",
		XP:          25,
		Attribute:   AttrCalmness,
	},
	{
		Code:        "CLEAN_SPACE",
		Title:       "Reset Your Space",
		Description: "Tidy your desk or room for 10 minutes",
		XP:          20,
		Attribute:   AttrCleanliness,
	},
	{
		Code:        "DIGITAL_SUNSET",
		Title:       "Digital Sunset",
		Description: "No screens for the last hour before bed",
		XP:          35,
		Attribute:   AttrCleanliness,
	},
	{
		Code:        "REACH_OUT",
		Title:       "Reach Out",
		Description: "Message or call someone you trust",
		XP:          30,
		Attribute:   AttrConfidence,
	},
	{
		Code:        "EYE_CONTACT",
		Title:       "Hold Eye Contact",
		Description: "Hold eye contact through one full conversation",
		XP:          25,
		Attribute:   AttrConfidence,
	},
}

// MissionByCode looks up a catalog entry; ok is false for unknown codes
// (possible if the catalog shrank after missions were assigned).
func MissionByCode(code string) (MissionDef, bool) {
	for _, m := range MissionCatalog {
		if m.Code == code {
			return m, true
		}
	}
	return MissionDef{}, false
}
