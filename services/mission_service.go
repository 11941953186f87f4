package services

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"nofap-ai/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MissionsPerDay caps daily assignments.
const MissionsPerDay = 3

type MissionService struct {
	DB *gorm.DB
}

func NewMissionService(db *gorm.DB) *MissionService {
	return &MissionService{DB: db}
}

// MissionView joins an assigned mission with its catalog entry.
type MissionView struct {
	models.DailyMission
	Title       string `json:"title"`
	Description string `json:"description"`
	XP          int64  `json:"xp"`
	Attribute   string `json:"attribute"`
}

// SelectMissionCodes picks up to n catalog codes not already assigned,
// uniformly without replacement (shuffle-and-slice).
func SelectMissionCodes(assigned map[string]bool, n int) []string {
	var pool []string
	for _, def := range models.MissionCatalog {
		if !assigned[def.Code] {
			pool = append(pool, def.Code)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n < 0 {
		n = 0
	}
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// Today returns today's missions, topping the list up to MissionsPerDay with
// fresh random picks on first call of the day.
func (s *MissionService) Today(userID string, now time.Time) ([]MissionView, error) {
	today := dateKey(now)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing []models.DailyMission
		if err := tx.Where("user_id = ? AND date = ?", userID, today).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) >= MissionsPerDay {
			return nil
		}

		assigned := make(map[string]bool, len(existing))
		for _, m := range existing {
			assigned[m.MissionCode] = true
		}
		for _, code := range SelectMissionCodes(assigned, MissionsPerDay-len(existing)) {
			mission := models.DailyMission{
				ID:          uuid.NewString(),
				UserID:      userID,
				Date:        today,
				MissionCode: code,
				Status:      models.MissionPending,
			}
			if err := tx.Create(&mission).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var missions []models.DailyMission
	if err := s.DB.Where("user_id = ? AND date = ?", userID, today).
		Order("created_at ASC").
		Find(&missions).Error; err != nil {
		return nil, err
	}

	views := make([]MissionView, 0, len(missions))
	for _, m := range missions {
		view := MissionView{DailyMission: m}
		if def, ok := models.MissionByCode(m.MissionCode); ok {
			view.Title = def.Title
			view.Description = def.Description
			view.XP = def.XP
			view.Attribute = def.Attribute
		}
		views = append(views, view)
	}
	return views, nil
}

// Complete flips a mission pending → completed exactly once, granting its XP
// and one attribute point, both doubled inside the reset-bonus window. The
// status check and the reward run in one transaction, so two racing
// completions cannot double-grant.
func (s *MissionService) Complete(userID, missionID string, now time.Time) (*MissionView, bool, error) {
	var mission models.DailyMission
	already := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", missionID, userID).First(&mission).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if mission.Status == models.MissionCompleted {
			already = true
			return nil
		}

		mission.Status = models.MissionCompleted
		mission.CompletedAt = &now
		if err := tx.Save(&mission).Error; err != nil {
			return err
		}

		def, ok := models.MissionByCode(mission.MissionCode)
		if !ok {
			// Catalog drifted since assignment; completion still sticks,
			// there is just nothing to grant.
			log.Printf("⚠️ Mission code %q missing from catalog, no reward", mission.MissionCode)
			return nil
		}

		var profile models.UserProfile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}
		xp, points := def.XP, 1
		if inResetBonus(&profile, now) {
			xp *= 2
			points *= 2
		}
		if _, err := awardXP(tx, userID, xp, "mission_"+def.Code); err != nil {
			return err
		}
		_, err = applyAttributePoints(tx, userID, def.Attribute, points)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	view := &MissionView{DailyMission: mission}
	if def, ok := models.MissionByCode(mission.MissionCode); ok {
		view.Title = def.Title
		view.Description = def.Description
		view.XP = def.XP
		view.Attribute = def.Attribute
	}
	return view, already, nil
}
