package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"nofap-ai/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var ErrSlotLimit = errors.New("no free habit slot")

type HabitService struct {
	DB *gorm.DB
}

func NewHabitService(db *gorm.DB) *HabitService {
	return &HabitService{DB: db}
}

// HabitView is a habit plus the two day-flags the dashboard renders.
type HabitView struct {
	models.UserHabit
	TodayChecked     bool `json:"today_checked"`
	YesterdayChecked bool `json:"yesterday_checked"`
}

// List returns all non-archived habits with today/yesterday flags resolved.
func (s *HabitService) List(userID string, now time.Time) ([]HabitView, error) {
	var habits []models.UserHabit
	err := s.DB.Where("user_id = ? AND status <> ?", userID, models.HabitArchived).
		Order("started_at ASC").
		Find(&habits).Error
	if err != nil {
		return nil, err
	}

	today := dateKey(now)
	yesterday := dateKey(now.AddDate(0, 0, -1))

	views := make([]HabitView, 0, len(habits))
	for _, h := range habits {
		view := HabitView{UserHabit: h}
		var checks []models.HabitCheck
		if err := s.DB.Where("habit_id = ? AND date IN ?", h.ID, []string{today, yesterday}).
			Find(&checks).Error; err != nil {
			return nil, err
		}
		for _, c := range checks {
			if c.Date == today {
				view.TodayChecked = true
			}
			if c.Date == yesterday {
				view.YesterdayChecked = true
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Slots returns how many concurrent habits the user may run: the base slot
// plus one for every habit that has ever reached the unlock streak.
func (s *HabitService) Slots(userID string) (int, error) {
	var unlocked int64
	err := s.DB.Model(&models.UserHabit{}).
		Where("user_id = ? AND longest_streak >= ?", userID, models.HabitUnlockStreak).
		Count(&unlocked).Error
	return models.BaseHabitSlots + int(unlocked), err
}

// Create starts a new continuity challenge if a slot is free.
func (s *HabitService) Create(userID, title string) (*models.UserHabit, error) {
	habitSlug := slug.Make(title)
	if habitSlug == "" {
		return nil, fmt.Errorf("title %q produces an empty slug", title)
	}

	var habit *models.UserHabit
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var unlocked int64
		if err := tx.Model(&models.UserHabit{}).
			Where("user_id = ? AND longest_streak >= ?", userID, models.HabitUnlockStreak).
			Count(&unlocked).Error; err != nil {
			return err
		}
		slots := models.BaseHabitSlots + int(unlocked)
		var active int64
		if err := tx.Model(&models.UserHabit{}).
			Where("user_id = ? AND status <> ?", userID, models.HabitArchived).
			Count(&active).Error; err != nil {
			return err
		}
		if int(active) >= slots {
			return ErrSlotLimit
		}

		var count int64
		if err := tx.Model(&models.UserHabit{}).
			Where("user_id = ? AND slug = ?", userID, habitSlug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("habit %q already exists", habitSlug)
		}

		habit = &models.UserHabit{
			ID:     uuid.NewString(),
			UserID: userID,
			Title:  title,
			Slug:   habitSlug,
			Status: models.HabitChallenge,
		}
		return tx.Create(habit).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🌱 Habit created: %s/%s", userID, habitSlug)
	return habit, nil
}

// Check marks the habit done for today. Idempotent: a second check on the
// same day changes nothing. Crossing the unlock streak flips the habit to
// maintenance and frees a slot.
func (s *HabitService) Check(userID, habitSlug string, now time.Time) (*models.UserHabit, bool, error) {
	var habit models.UserHabit
	already := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND slug = ? AND status <> ?", userID, habitSlug, models.HabitArchived).
			First(&habit).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		today := dateKey(now)
		var count int64
		if err := tx.Model(&models.HabitCheck{}).
			Where("habit_id = ? AND date = ?", habit.ID, today).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			already = true
			return nil
		}

		check := models.HabitCheck{
			ID:      uuid.NewString(),
			HabitID: habit.ID,
			Date:    today,
		}
		if err := tx.Create(&check).Error; err != nil {
			return err
		}

		// Streak chains through yesterday; any gap restarts at 1.
		var yCount int64
		if err := tx.Model(&models.HabitCheck{}).
			Where("habit_id = ? AND date = ?", habit.ID, dateKey(now.AddDate(0, 0, -1))).
			Count(&yCount).Error; err != nil {
			return err
		}
		if yCount > 0 {
			habit.CurrentStreak++
		} else {
			habit.CurrentStreak = 1
		}
		if habit.CurrentStreak > habit.LongestStreak {
			habit.LongestStreak = habit.CurrentStreak
		}
		habit.TotalChecks++

		if habit.Status == models.HabitChallenge && habit.CurrentStreak >= models.HabitUnlockStreak {
			habit.Status = models.HabitMaintenance
			log.Printf("🏆 Habit %s/%s survived %d days → maintenance, new slot unlocked",
				userID, habitSlug, models.HabitUnlockStreak)
		}

		return tx.Save(&habit).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &habit, already, nil
}

// Archive retires a habit; its slot unlock (if earned) is kept.
func (s *HabitService) Archive(userID, habitSlug string) error {
	res := s.DB.Model(&models.UserHabit{}).
		Where("user_id = ? AND slug = ? AND status <> ?", userID, habitSlug, models.HabitArchived).
		Update("status", models.HabitArchived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
