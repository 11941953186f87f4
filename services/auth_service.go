package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"nofap-ai/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionTTL: how long a login stays valid without re-authenticating.
const SessionTTL = 30 * 24 * time.Hour

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// Register creates the user plus its profile and streak rows in one
// transaction, then opens a session. A user without those two rows would
// 500 on first page load, so they are never created lazily.
func (s *AuthService) Register(email, name, password, ip, userAgent string) (*models.User, *models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := &models.UserProfile{
			ID:      uuid.NewString(),
			UserID:  user.ID,
			Level:   1,
			Persona: models.PersonaMentor,
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		streak := &models.Streak{
			ID:     uuid.NewString(),
			UserID: user.ID,
		}
		return tx.Create(streak).Error
	})
	if err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(user.ID, ip, userAgent)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("✅ New user registered: %s", user.Email)
	return user, session, nil
}

// Login verifies the password and opens a fresh session.
func (s *AuthService) Login(email, password, ip, userAgent string) (*models.User, *models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBadCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrBadCredentials
	}

	session, err := s.createSession(user.ID, ip, userAgent)
	if err != nil {
		return nil, nil, err
	}
	return &user, session, nil
}

func (s *AuthService) createSession(userID, ip, userAgent string) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString() + uuid.NewString(), // opaque, unguessable
		UserID:    userID,
		ExpiresAt: time.Now().Add(SessionTTL),
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// SessionByToken resolves a session token to its owning user. Expired or
// unknown tokens are ErrUnauthorized, never a distinguishable error.
func (s *AuthService) SessionByToken(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	var session models.Session
	err := s.DB.Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, ErrUnauthorized
	}
	return &session, nil
}

// Logout deletes the session; idempotent.
func (s *AuthService) Logout(token string) error {
	return s.DB.Where("token = ?", token).Delete(&models.Session{}).Error
}

// PurgeExpiredSessions removes dead sessions; called by the maintenance scheduler.
func (s *AuthService) PurgeExpiredSessions() (int64, error) {
	res := s.DB.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
