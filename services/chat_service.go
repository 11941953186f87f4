package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"nofap-ai/models"
	"nofap-ai/utils"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

const defaultChatModel = "gpt-4o-mini"

type ChatService struct {
	DB     *gorm.DB
	client *openai.Client
	model  string
}

// NewChatService wires the hosted LLM client. OPENAI_API_KEY is required;
// AI_BASE_URL lets the same client talk to any OpenAI-compatible endpoint.
func NewChatService(db *gorm.DB) *ChatService {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("AI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = utils.HTTPClient

	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = defaultChatModel
	}

	return &ChatService{
		DB:     db,
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// IncomingMessage is one turn of the conversation as sent by the client.
type IncomingMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// Sessions lists the user's conversations, newest activity first.
func (s *ChatService) Sessions(userID string) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&sessions).Error
	return sessions, err
}

// CreateSession opens a new conversation.
func (s *ChatService) CreateSession(userID, title string) (*models.ChatSession, error) {
	session := &models.ChatSession{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	if title != "" {
		session.Title = title
	} else {
		session.Title = "New conversation"
	}
	if err := s.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// RenameSession retitles a conversation the user owns.
func (s *ChatService) RenameSession(userID, sessionID, title string) error {
	res := s.DB.Model(&models.ChatSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession drops a conversation and its messages.
func (s *ChatService) DeleteSession(userID, sessionID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", sessionID, userID).Delete(&models.ChatSession{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("session_id = ?", sessionID).Delete(&models.ChatMessage{}).Error
	})
}

// DeleteMessage removes one message; the log is otherwise append-only.
func (s *ChatService) DeleteMessage(userID, messageID string) error {
	res := s.DB.Where("id = ? AND user_id = ?", messageID, userID).Delete(&models.ChatMessage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Messages returns a session's log in order, after an ownership check.
func (s *ChatService) Messages(userID, sessionID string) ([]models.ChatMessage, error) {
	if _, err := s.resolveSession(userID, sessionID); err != nil {
		return nil, err
	}
	var msgs []models.ChatMessage
	err := s.DB.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&msgs).Error
	return msgs, err
}

// EnsureSession verifies ownership of an existing session, or opens a fresh
// one when id is empty.
func (s *ChatService) EnsureSession(userID, sessionID string) (*models.ChatSession, error) {
	return s.resolveSession(userID, sessionID)
}

// resolveSession verifies ownership, or opens a fresh session when id is empty.
func (s *ChatService) resolveSession(userID, sessionID string) (*models.ChatSession, error) {
	if sessionID == "" {
		return s.CreateSession(userID, "")
	}
	var session models.ChatSession
	err := s.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Stream sends the conversation to the LLM and forwards tokens to onToken as
// they arrive. The exchange (latest user message + full assistant reply) is
// persisted only after the stream completes; a crash mid-stream drops it.
// That fire-and-forget window is accepted for a non-critical assistant.
func (s *ChatService) Stream(ctx context.Context, userID, sessionID string, incoming []IncomingMessage, onToken func(token string) error) (string, error) {
	session, err := s.resolveSession(userID, sessionID)
	if err != nil {
		return "", err
	}
	if len(incoming) == 0 {
		return "", fmt.Errorf("empty message list")
	}

	latest := ""
	for i := len(incoming) - 1; i >= 0; i-- {
		if incoming[i].Role == models.RoleUser {
			latest = incoming[i].Content
			break
		}
	}

	systemPrompt, err := s.buildPrompt(userID, latest)
	if err != nil {
		return "", err
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(incoming)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range incoming {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: msgs,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open completion stream: %w", err)
	}
	defer stream.Close()

	var full string
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("stream recv failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		token := resp.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		full += token
		if err := onToken(token); err != nil {
			return "", err
		}
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if latest != "" {
			userMsg := models.ChatMessage{
				ID:        uuid.NewString(),
				SessionID: session.ID,
				UserID:    userID,
				Role:      models.RoleUser,
				Content:   latest,
			}
			if err := tx.Create(&userMsg).Error; err != nil {
				return err
			}
		}
		botMsg := models.ChatMessage{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			UserID:    userID,
			Role:      models.RoleAssistant,
			Content:   full,
		}
		if err := tx.Create(&botMsg).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatSession{}).
			Where("id = ?", session.ID).
			Update("updated_at", now).Error
	})
	if err != nil {
		// Reply already reached the client; losing the log entry is the
		// documented trade-off.
		log.Printf("⚠️ Failed to persist chat exchange for %s: %v", userID, err)
	}
	return session.ID, nil
}

// buildPrompt snapshots the user's state into the system prompt.
func (s *ChatService) buildPrompt(userID, latestMessage string) (string, error) {
	profile, err := NewProfileService(s.DB).EnsureProfile(userID)
	if err != nil {
		return "", err
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return "", err
	}

	state := CoachState{
		Name:      user.Name,
		Level:     profile.Level,
		MoteLevel: profile.MoteLevel,
		Tier:      TierForScore(ScoreFromMoteLevel(profile.MoteLevel)),
	}
	if status, err := NewStreakService(s.DB).Status(userID, time.Now()); err == nil {
		state.StreakDays = status.Days
		state.FailedToday = status.TodayStatus == models.RecordFailure
	}

	return BuildSystemPrompt(profile.Persona, state, latestMessage), nil
}
