package models

import "time"

// Chat message roles (OpenAI wire names, stored as-is).
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession groups a user's coach conversation; renameable.
type ChatSession struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Title    string        `gorm:"not null;default:'New conversation'" json:"title"`
	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ChatMessage is append-only except for explicit per-message deletion.
type ChatMessage struct {
	ID        string      `gorm:"primaryKey;type:uuid" json:"id"`
	SessionID string      `gorm:"index;not null" json:"session_id"`
	Session   ChatSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string      `gorm:"index;not null" json:"user_id"`

	Role    string `gorm:"not null" json:"role"` // user | assistant
	Content string `gorm:"not null" json:"content"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
