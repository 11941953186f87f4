package services_test

import (
	"errors"
	"testing"

	"nofap-ai/models"
	"nofap-ai/services"
)

func TestSaveJournal_UpsertAndAnalysisClear(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := seedUser(t, db)
	svc := services.NewRecordService(db)
	now := mustTime(t, "2026-09-01T20:00:00Z")

	rec, err := svc.SaveJournal(userID, "", "made it through a hard day", now)
	if err != nil {
		t.Fatalf("SaveJournal() failed: %v", err)
	}
	if rec.Date != "2026-09-01" {
		t.Errorf("date = %q, want today", rec.Date)
	}
	if rec.Status != models.RecordSuccess {
		t.Errorf("status = %q, want success default", rec.Status)
	}

	// Simulate the worker having analyzed the entry.
	summary, category := "a hard but clean day", "progress"
	if err := db.Model(&models.DailyRecord{}).Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"analysis_summary":  summary,
			"analysis_category": category,
		}).Error; err != nil {
		t.Fatalf("failed to seed analysis: %v", err)
	}

	// Rewriting the journal clears stale analysis for re-processing.
	rec, err = svc.SaveJournal(userID, "2026-09-01", "actually it was worse than I said", now)
	if err != nil {
		t.Fatalf("second SaveJournal() failed: %v", err)
	}
	if rec.AnalysisSummary != nil || rec.AnalysisCategory != nil {
		t.Error("changed journal kept stale analysis")
	}

	var count int64
	db.Model(&models.DailyRecord{}).Where("user_id = ?", userID).Count(&count)
	if count != 1 {
		t.Errorf("record count = %d, want 1 (upsert, not insert)", count)
	}
}

func TestSaveJournal_NeverDowngradesFailure(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := seedUser(t, db)
	now := mustTime(t, "2026-09-01T20:00:00Z")

	if err := services.NewStreakService(db).Reset(userID, "", now); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	rec, err := services.NewRecordService(db).SaveJournal(userID, "", "writing about the slip", now)
	if err != nil {
		t.Fatalf("SaveJournal() failed: %v", err)
	}
	if rec.Status != models.RecordFailure {
		t.Errorf("status = %q, journaling must not undo a failure", rec.Status)
	}
}

func TestRecordMonthAndGet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	userID := seedUser(t, db)
	svc := services.NewRecordService(db)

	for _, date := range []string{"2026-08-30", "2026-09-01", "2026-09-15"} {
		rec := models.DailyRecord{
			ID:     "rec-" + date,
			UserID: userID,
			Date:   date,
			Status: models.RecordSuccess,
		}
		if err := db.Create(&rec).Error; err != nil {
			t.Fatalf("failed to seed record %s: %v", date, err)
		}
	}

	records, err := svc.Month(userID, "2026-09")
	if err != nil {
		t.Fatalf("Month() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("month listing returned %d records, want 2", len(records))
	}
	if records[0].Date != "2026-09-01" || records[1].Date != "2026-09-15" {
		t.Errorf("month listing out of order: %s, %s", records[0].Date, records[1].Date)
	}

	if _, err := svc.Month(userID, "september"); err == nil {
		t.Error("invalid month accepted")
	}

	if _, err := svc.Get(userID, "2026-09-02"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Get on empty day error = %v, want ErrNotFound", err)
	}
}
