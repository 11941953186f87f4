package services

import (
	"errors"
	"fmt"
	"time"

	"nofap-ai/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecordService struct {
	DB *gorm.DB
}

func NewRecordService(db *gorm.DB) *RecordService {
	return &RecordService{DB: db}
}

// SaveJournal upserts the journal text for a date (today when date is empty).
// An existing failure status is never downgraded by journaling — writing about
// a slip doesn't undo it. A changed journal clears any previous AI analysis so
// the worker picks the record up again.
func (s *RecordService) SaveJournal(userID, date, journal string, now time.Time) (*models.DailyRecord, error) {
	if date == "" {
		date = dateKey(now)
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	var rec models.DailyRecord
	err := s.DB.Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = models.DailyRecord{
			ID:     uuid.NewString(),
			UserID: userID,
			Date:   date,
			Status: models.RecordSuccess,
		}
	} else if err != nil {
		return nil, err
	}

	if rec.Journal != journal {
		rec.Journal = journal
		rec.AnalysisSummary = nil
		rec.AnalysisCategory = nil
	}
	if err := s.DB.Save(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Month lists a calendar month of records, oldest first. month is "YYYY-MM".
func (s *RecordService) Month(userID, month string) ([]models.DailyRecord, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", month, err)
	}
	var records []models.DailyRecord
	err := s.DB.Where("user_id = ? AND date LIKE ?", userID, month+"-%").
		Order("date ASC").
		Find(&records).Error
	return records, err
}

// Get returns one record by date; ErrNotFound when the day has no entry.
func (s *RecordService) Get(userID, date string) (*models.DailyRecord, error) {
	var rec models.DailyRecord
	err := s.DB.Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
