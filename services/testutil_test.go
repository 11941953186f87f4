package services_test

import (
	"testing"
	"time"

	"nofap-ai/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.UserProfile{},
		&models.Streak{},
		&models.DailyRecord{},
		&models.UserHabit{},
		&models.HabitCheck{},
		&models.DailyMission{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// seedUser creates a user with profile and streak rows, returning the user id.
func seedUser(t *testing.T, db *gorm.DB) string {
	t.Helper()

	userID := uuid.NewString()
	user := models.User{
		ID:           userID,
		Email:        userID + "@example.com",
		Name:         "Test User",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	profile := models.UserProfile{
		ID:      uuid.NewString(),
		UserID:  userID,
		Level:   1,
		Persona: models.PersonaMentor,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	streak := models.Streak{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	if err := db.Create(&streak).Error; err != nil {
		t.Fatalf("failed to seed streak: %v", err)
	}
	return userID
}

func loadProfile(t *testing.T, db *gorm.DB, userID string) models.UserProfile {
	t.Helper()

	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	return profile
}

// mustTime parses a fixed timestamp for deterministic day math.
func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}
