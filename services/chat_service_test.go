package services_test

import (
	"errors"
	"testing"

	"nofap-ai/models"
	"nofap-ai/services"
)

func newChatService(t *testing.T) (*services.ChatService, string) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")

	db := newTestDB(t)
	return services.NewChatService(db), seedUser(t, db)
}

func TestChatSessionOwnership(t *testing.T) {
	svc, userID := newChatService(t)

	session, err := svc.CreateSession(userID, "urges at night")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	// An empty id opens a fresh session instead of failing.
	fresh, err := svc.EnsureSession(userID, "")
	if err != nil {
		t.Fatalf("EnsureSession(\"\") failed: %v", err)
	}
	if fresh.ID == session.ID {
		t.Error("EnsureSession with empty id reused an existing session")
	}

	// Another user cannot see, rename or delete it.
	if _, err := svc.EnsureSession("intruder", session.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign EnsureSession error = %v, want ErrNotFound", err)
	}
	if err := svc.RenameSession("intruder", session.ID, "mine now"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign rename error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteSession("intruder", session.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign delete error = %v, want ErrNotFound", err)
	}

	if err := svc.RenameSession(userID, session.ID, "late night urges"); err != nil {
		t.Fatalf("RenameSession() failed: %v", err)
	}
	sessions, err := svc.Sessions(userID)
	if err != nil {
		t.Fatalf("Sessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("session count = %d, want 2", len(sessions))
	}
}

func TestChatMessageDeletion(t *testing.T) {
	svc, userID := newChatService(t)

	session, err := svc.CreateSession(userID, "")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	msg := models.ChatMessage{
		ID:        "msg-1",
		SessionID: session.ID,
		UserID:    userID,
		Role:      models.RoleUser,
		Content:   "day three and holding",
	}
	if err := svc.DB.Create(&msg).Error; err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}

	if err := svc.DeleteMessage("intruder", msg.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign message delete error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteMessage(userID, msg.ID); err != nil {
		t.Fatalf("DeleteMessage() failed: %v", err)
	}

	msgs, err := svc.Messages(userID, session.ID)
	if err != nil {
		t.Fatalf("Messages() failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("message count after delete = %d, want 0", len(msgs))
	}

	// Deleting the session removes its messages too.
	if err := svc.DeleteSession(userID, session.ID); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	if _, err := svc.Messages(userID, session.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("messages of deleted session error = %v, want ErrNotFound", err)
	}
}
