package services_test

import (
	"errors"
	"testing"
	"time"

	"nofap-ai/models"
	"nofap-ai/services"
)

func TestRegisterLoginFlow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := services.NewAuthService(db)

	user, session, err := svc.Register("Alex@Example.com", "Alex", "correct horse battery", "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if user.Email != "alex@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if session.Token == "" {
		t.Error("no session token issued on register")
	}

	// Profile and streak rows must exist immediately.
	var profileCount, streakCount int64
	db.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&profileCount)
	db.Model(&models.Streak{}).Where("user_id = ?", user.ID).Count(&streakCount)
	if profileCount != 1 || streakCount != 1 {
		t.Errorf("profile/streak rows = %d/%d, want 1/1", profileCount, streakCount)
	}

	// Duplicate email rejected.
	if _, _, err := svc.Register("alex@example.com", "Alex2", "another password", "", ""); !errors.Is(err, services.ErrEmailTaken) {
		t.Errorf("duplicate register error = %v, want ErrEmailTaken", err)
	}

	// Login with the right and wrong password.
	if _, _, err := svc.Login("alex@example.com", "correct horse battery", "", ""); err != nil {
		t.Errorf("Login() failed: %v", err)
	}
	if _, _, err := svc.Login("alex@example.com", "wrong password", "", ""); !errors.Is(err, services.ErrBadCredentials) {
		t.Errorf("wrong-password login error = %v, want ErrBadCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "whatever", "", ""); !errors.Is(err, services.ErrBadCredentials) {
		t.Errorf("unknown-email login error = %v, want ErrBadCredentials", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := services.NewAuthService(db)

	_, session, err := svc.Register("sam@example.com", "Sam", "a strong password", "", "")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	resolved, err := svc.SessionByToken(session.Token)
	if err != nil {
		t.Fatalf("SessionByToken() failed: %v", err)
	}
	if resolved.UserID != session.UserID {
		t.Errorf("session resolves to %q, want %q", resolved.UserID, session.UserID)
	}

	if _, err := svc.SessionByToken(""); !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("empty token error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.SessionByToken("bogus-token"); !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("bogus token error = %v, want ErrUnauthorized", err)
	}

	// Expired sessions are unauthorized and purgeable.
	if err := db.Model(&models.Session{}).Where("id = ?", session.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("failed to expire session: %v", err)
	}
	if _, err := svc.SessionByToken(session.Token); !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expired token error = %v, want ErrUnauthorized", err)
	}
	purged, err := svc.PurgeExpiredSessions()
	if err != nil {
		t.Fatalf("PurgeExpiredSessions() failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged %d sessions, want 1", purged)
	}

	// Logout is idempotent.
	if err := svc.Logout(session.Token); err != nil {
		t.Errorf("Logout() failed: %v", err)
	}
	if err := svc.Logout(session.Token); err != nil {
		t.Errorf("second Logout() failed: %v", err)
	}
}
