package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"video-summarizer/internal/models"
	"video-summarizer/internal/store"

	"github.com/sirupsen/logrus"
)

// Display-name bounds, counted in characters after trimming
const (
	MinNicknameLength = 2
	MaxNicknameLength = 20
)

// ValidationError indicates input rejected before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// AvailabilityChecker asks the backend whether a display name is free
type AvailabilityChecker interface {
	CheckNickname(ctx context.Context, nickname string) (models.NicknameCheck, error)
}

// Manager holds the single active identity per installation. The nickname
// is loaded once at startup and gates personalized history.
type Manager struct {
	kv      *store.KV
	checker AvailabilityChecker
	logger  *logrus.Logger

	nickname string
}

// NewManager creates a new session manager
func NewManager(kv *store.KV, checker AvailabilityChecker, log *logrus.Logger) *Manager {
	return &Manager{kv: kv, checker: checker, logger: log}
}

// ValidateNickname rejects names outside the 2-20 character range
func ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return &ValidationError{Field: "nickname", Message: "a display name is required"}
	}

	length := utf8.RuneCountInString(trimmed)
	if length < MinNicknameLength || length > MaxNicknameLength {
		return &ValidationError{
			Field: "nickname",
			Message: fmt.Sprintf("must be %d-%d characters, got %d",
				MinNicknameLength, MaxNicknameLength, length),
		}
	}

	return nil
}

// Load reads the persisted identity. Load failures degrade to an absent
// identity with a warning; the identity gate will collect a new one.
func (m *Manager) Load() (string, bool) {
	var nickname string
	found, err := m.kv.Get(store.KeyNickname, &nickname)
	if err != nil {
		m.logger.WithError(err).Warn("Failed to load saved identity")
		return "", false
	}
	if !found || nickname == "" {
		return "", false
	}

	m.nickname = nickname
	m.logger.WithField("nickname", nickname).Info("Identity loaded")
	return nickname, true
}

// Current returns the active identity, empty when none is set
func (m *Manager) Current() string {
	return m.nickname
}

// SetNickname validates and persists a new identity. Persistence failures
// are surfaced: identity is a precondition for personalized features.
func (m *Manager) SetNickname(nickname string) error {
	if err := ValidateNickname(nickname); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(nickname)
	if err := m.kv.Set(store.KeyNickname, trimmed); err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}

	m.nickname = trimmed
	m.logger.WithField("nickname", trimmed).Info("Identity saved")
	return nil
}

// CheckAvailability asks the backend whether the name is free. Backend
// failures degrade to unavailable rather than failing the login flow.
func (m *Manager) CheckAvailability(ctx context.Context, nickname string) (bool, string) {
	if err := ValidateNickname(nickname); err != nil {
		return false, err.Error()
	}

	check, err := m.checker.CheckNickname(ctx, strings.TrimSpace(nickname))
	if err != nil {
		m.logger.WithError(err).Warn("Nickname availability check failed")
		return false, "availability check failed"
	}

	return check.Available, check.Message
}

// Clear removes the persisted identity
func (m *Manager) Clear() error {
	if err := m.kv.Remove(store.KeyNickname); err != nil {
		return err
	}
	m.nickname = ""
	return nil
}
