package services_test

import (
	"testing"
	"time"

	"nofap-ai/models"
	"nofap-ai/services"
)

func TestStreakStartAndStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := seedUser(t, db)
	svc := services.NewStreakService(db)
	now := mustTime(t, "2026-09-01T12:00:00Z")

	status, err := svc.Status(userID, now)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if status.TodayStatus != "not_started" || status.Days != 0 {
		t.Errorf("fresh streak: status=%q days=%d, want not_started/0", status.TodayStatus, status.Days)
	}

	status, err = svc.Start(userID, now)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if status.StartedAt == nil || status.Days != 0 {
		t.Errorf("just started: StartedAt=%v days=%d", status.StartedAt, status.Days)
	}

	// Start is idempotent: a later call keeps the original clock.
	later := now.Add(48 * time.Hour)
	status, err = svc.Start(userID, later)
	if err != nil {
		t.Fatalf("second Start() failed: %v", err)
	}
	if status.Days != 2 {
		t.Errorf("after 48h: days=%d, want 2", status.Days)
	}
}

func TestStreakReset(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := seedUser(t, db)
	svc := services.NewStreakService(db)

	started := mustTime(t, "2026-08-22T12:00:00Z")
	if _, err := svc.Start(userID, started); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Give the profile something to decay.
	if err := db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"confidence":  50,
			"vitality":    30,
			"calmness":    -20,
			"cleanliness": 0,
		}).Error; err != nil {
		t.Fatalf("failed to seed attributes: %v", err)
	}

	now := started.AddDate(0, 0, 10) // a 10-day streak ends today
	if err := svc.Reset(userID, "slipped after a stressful day", now); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	profile := loadProfile(t, db, userID)
	if profile.Confidence != 35 || profile.Vitality != 21 {
		t.Errorf("decayed attrs = conf %d vit %d, want 35/21", profile.Confidence, profile.Vitality)
	}
	if profile.LastResetAt == nil {
		t.Error("LastResetAt not set by reset")
	}
	wantMote := services.CalculateMoteLevel(profile.Confidence, profile.Vitality, profile.Calmness, profile.Cleanliness)
	if profile.MoteLevel != wantMote {
		t.Errorf("mote level %d violates invariant, want %d", profile.MoteLevel, wantMote)
	}

	status, err := svc.Status(userID, now)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if status.Days != 0 {
		t.Errorf("post-reset days = %d, want 0", status.Days)
	}
	if status.TodayStatus != models.RecordFailure {
		t.Errorf("today status = %q, want failure", status.TodayStatus)
	}
	if status.MaxStreak != 10 {
		t.Errorf("max streak = %d, want 10 (high-water from the ended run)", status.MaxStreak)
	}

	var rec models.DailyRecord
	if err := db.Where("user_id = ? AND date = ?", userID, now.Format("2006-01-02")).First(&rec).Error; err != nil {
		t.Fatalf("failure record missing: %v", err)
	}
	if rec.Status != models.RecordFailure {
		t.Errorf("record status = %q, want failure", rec.Status)
	}
	if rec.Journal == "" {
		t.Error("reset journal not stored")
	}
}

func TestStreakStatus_FailureRecordWinsOverClock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := seedUser(t, db)
	svc := services.NewStreakService(db)
	now := mustTime(t, "2026-09-01T12:00:00Z")

	if _, err := svc.Start(userID, now.AddDate(0, 0, -5)); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	rec := models.DailyRecord{
		ID:     "rec-today",
		UserID: userID,
		Date:   now.Format("2006-01-02"),
		Status: models.RecordFailure,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("failed to seed failure record: %v", err)
	}

	status, err := svc.Status(userID, now)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	if status.TodayStatus != models.RecordFailure {
		t.Errorf("today status = %q, want failure despite a running clock", status.TodayStatus)
	}
	if status.Days != 5 {
		t.Errorf("days = %d, want 5 (clock still derives from start)", status.Days)
	}
}
