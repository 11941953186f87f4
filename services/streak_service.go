package services

import (
	"errors"
	"log"
	"time"

	"nofap-ai/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakService struct {
	DB *gorm.DB
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{DB: db}
}

// StreakStatus is the derived, read-time view of the streak clock.
type StreakStatus struct {
	StartedAt   *time.Time `json:"started_at,omitempty"`
	Days        int        `json:"days"`
	TodayStatus string     `json:"today_status"` // success | failure | not_started
	MaxStreak   int        `json:"max_streak"`
}

// Status derives the streak day count from the start timestamp. A failure
// record logged for today wins over whatever the clock says.
func (s *StreakService) Status(userID string, now time.Time) (*StreakStatus, error) {
	var streak models.Streak
	if err := s.DB.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		return nil, err
	}

	status := &StreakStatus{
		StartedAt: streak.StartedAt,
		MaxStreak: streak.MaxStreak,
	}
	if streak.StartedAt == nil {
		status.TodayStatus = "not_started"
		return status, nil
	}

	status.Days = CalculateStreakDays(int64(now.Sub(*streak.StartedAt).Seconds()))
	status.TodayStatus = models.RecordSuccess

	var rec models.DailyRecord
	err := s.DB.Where("user_id = ? AND date = ?", userID, dateKey(now)).First(&rec).Error
	if err == nil && rec.Status == models.RecordFailure {
		status.TodayStatus = models.RecordFailure
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return status, nil
}

// Start sets the streak clock. Idempotent: calling it while a streak runs
// does nothing.
func (s *StreakService) Start(userID string, now time.Time) (*StreakStatus, error) {
	var streak models.Streak
	if err := s.DB.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		return nil, err
	}
	if streak.StartedAt == nil {
		streak.StartedAt = &now
		if err := s.DB.Save(&streak).Error; err != nil {
			return nil, err
		}
		log.Printf("⏱️ Streak started: %s", userID)
	}
	return s.Status(userID, now)
}

// Reset logs a failure: today's record flips to failure, all four attributes
// decay by the fixed factor, the reset-bonus window opens, and the clock
// restarts from now. One transaction — either the whole reset lands or none
// of it does.
func (s *StreakService) Reset(userID, journal string, now time.Time) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		// 1. Failure record for today (upsert on user+date).
		var rec models.DailyRecord
		err := tx.Where("user_id = ? AND date = ?", userID, dateKey(now)).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rec = models.DailyRecord{
				ID:     uuid.NewString(),
				UserID: userID,
				Date:   dateKey(now),
			}
		} else if err != nil {
			return err
		}
		rec.Status = models.RecordFailure
		if journal != "" {
			rec.Journal = journal
		}
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}

		// 2. Attribute decay, mote recompute, bonus window.
		var profile models.UserProfile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}
		profile.SetAttributes(CalculateResetAttributes(profile.Attributes()))
		recomputeMote(&profile)
		profile.LastResetAt = &now
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		// 3. Restart the clock, keeping the all-time high-water mark.
		var streak models.Streak
		if err := tx.Where("user_id = ?", userID).First(&streak).Error; err != nil {
			return err
		}
		if streak.StartedAt != nil {
			days := CalculateStreakDays(int64(now.Sub(*streak.StartedAt).Seconds()))
			if days > streak.MaxStreak {
				streak.MaxStreak = days
			}
		}
		streak.CurrentStreak = 0
		streak.StartedAt = &now
		if err := tx.Save(&streak).Error; err != nil {
			return err
		}

		log.Printf("💔 Streak reset: %s (attrs decayed, bonus window open)", userID)
		return nil
	})
}

// dateKey renders a timestamp as the calendar-date key daily tables are
// unique on.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
