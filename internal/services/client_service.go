package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// clientService handles client registration and login.
type clientService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db, now: time.Now}
}

// RegisterClient creates a new client with a bcrypt-hashed password.
func (s *clientService) RegisterClient(userName, email, password string) (*models.Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	userName = strings.TrimSpace(userName)
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if userName == "" {
		userName = email
	}

	var count int64
	if err := s.db.Model(&models.Client{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	client := &models.Client{
		UserName: userName,
		Email:    email,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client, nil
}

// AttemptLogin verifies credentials. Repeated failures lock the client for
// lockoutDuration; a successful login resets the counter.
func (s *clientService) AttemptLogin(email, password string) (*models.Client, error) {
	var client models.Client
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.now()
	if client.LockedUntil != nil && now.Before(*client.LockedUntil) {
		return nil, apperrors.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(client.Password), []byte(password)) != nil {
		updates := map[string]interface{}{"failed_login_attempts": client.FailedLoginAttempts + 1}
		if client.FailedLoginAttempts+1 >= maxFailedLoginAttempts {
			updates["locked_until"] = now.Add(lockoutDuration)
			updates["failed_login_attempts"] = 0
		}
		if err := s.db.Model(&client).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.db.Model(&client).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	client.FailedLoginAttempts = 0
	client.LockedUntil = nil
	client.LastLoginAt = &now
	return &client, nil
}

// FindClientByID retrieves a client by ID.
func (s *clientService) FindClientByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}
