package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"nofap-ai/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetBonusWindow: mission rewards are doubled this long after a reset, to
// pull users back in right after a slip.
const ResetBonusWindow = 3 * 24 * time.Hour

var ErrNotFound = errors.New("not found")

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// EnsureProfile ensures a UserProfile row exists (idempotent).
func (s *ProfileService) EnsureProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{
			ID:      uuid.NewString(),
			UserID:  userID,
			Level:   1,
			Persona: models.PersonaMentor,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetPersona updates the coach persona preference.
func (s *ProfileService) SetPersona(userID, persona string) error {
	switch persona {
	case models.PersonaMentor, models.PersonaFriend, models.PersonaDrill:
	default:
		return fmt.Errorf("unknown persona %q", persona)
	}
	res := s.DB.Model(&models.UserProfile{}).Where("user_id = ?", userID).Update("persona", persona)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAvatarURL stores the public URL of an uploaded avatar.
func (s *ProfileService) SetAvatarURL(userID, url string) error {
	return s.DB.Model(&models.UserProfile{}).Where("user_id = ?", userID).Update("avatar_url", url).Error
}

// awardXP adds xp inside tx and recomputes the level from the new total.
// All XP mutations in the app go through here so the level column can never
// drift from the XP column.
func awardXP(tx *gorm.DB, userID string, xp int64, reason string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("profile not found for %s", userID)
	}

	profile.TotalXP += xp
	if profile.TotalXP < 0 {
		profile.TotalXP = 0
	}
	info := CalculateLevel(profile.TotalXP)
	if err := checkFinite("xp threshold", float64(info.XPForNextLevel)); err != nil || info.XPForNextLevel <= 0 {
		return nil, fmt.Errorf("refusing to persist invalid level math for %s", userID)
	}
	profile.Level = info.Level

	if err := tx.Save(&profile).Error; err != nil {
		return nil, err
	}

	log.Printf("🎮 XP awarded: %s → +%d XP, total=%d, lvl=%d (reason: %s)",
		userID, xp, profile.TotalXP, profile.Level, reason)
	return &profile, nil
}

// applyAttributePoints shifts one attribute by delta inside tx, clamps it and
// recomputes the mote level plus its high-water mark.
func applyAttributePoints(tx *gorm.DB, userID, attribute string, delta int) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("profile not found for %s", userID)
	}

	switch attribute {
	case models.AttrConfidence:
		profile.Confidence = clamp(profile.Confidence+delta, -100, 100)
	case models.AttrVitality:
		profile.Vitality = clamp(profile.Vitality+delta, -100, 100)
	case models.AttrCalmness:
		profile.Calmness = clamp(profile.Calmness+delta, -100, 100)
	case models.AttrCleanliness:
		profile.Cleanliness = clamp(profile.Cleanliness+delta, -100, 100)
	default:
		return nil, fmt.Errorf("unknown attribute %q", attribute)
	}

	recomputeMote(&profile)
	if err := tx.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// recomputeMote enforces the invariant mote == clamp(round(mean(attrs))) and
// keeps the high-water mark.
func recomputeMote(p *models.UserProfile) {
	p.MoteLevel = CalculateMoteLevel(p.Confidence, p.Vitality, p.Calmness, p.Cleanliness)
	if p.MoteLevel > p.MaxMoteLevel {
		p.MaxMoteLevel = p.MoteLevel
	}
}

// inResetBonus reports whether the reward-doubling window after a reset is open.
func inResetBonus(p *models.UserProfile, now time.Time) bool {
	return p.LastResetAt != nil && now.Sub(*p.LastResetAt) <= ResetBonusWindow
}
