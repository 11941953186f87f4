package models

import "time"

// Daily record statuses.
const (
	RecordSuccess = "success"
	RecordFailure = "failure"
)

// DailyRecord is one row per user per calendar date ("YYYY-MM-DD", user-local).
// A failure record for today overrides whatever the streak math says.
// AnalysisSummary/AnalysisCategory are filled in asynchronously by the journal
// analysis worker; they stay null when the LLM call or JSON parse fails.
type DailyRecord struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_user_date" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Date   string `gorm:"not null;uniqueIndex:idx_user_date" json:"date"`

	Status  string `gorm:"not null;default:success" json:"status"`
	Journal string `json:"journal,omitempty"`

	AnalysisSummary  *string `json:"analysis_summary,omitempty"`
	AnalysisCategory *string `json:"analysis_category,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
