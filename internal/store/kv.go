package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"video-summarizer/internal/config"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Storage keys used by the app
const (
	KeyNickname             = "user_nickname"
	KeyHistory              = "history"
	KeyFCMToken             = "fcm_token"
	KeyFCMPermissionChecked = "fcm_permission_checked"
)

// KVEntry is one durable string-keyed JSON value
type KVEntry struct {
	Key       string         `gorm:"primaryKey;size:255" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PersistenceError represents a local store read or write failure
type PersistenceError struct {
	Op    string
	Key   string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed for key %q: %v", e.Op, e.Key, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// IsPersistenceError checks if an error is a local store failure
func IsPersistenceError(err error) bool {
	var persistenceErr *PersistenceError
	return errors.As(err, &persistenceErr)
}

// KV wraps the durable key-value store. Values are JSON-serialized on the
// way in and decoded on the way out.
type KV struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// Open connects the key-value store: postgres when DATABASE_URL is set,
// otherwise a local sqlite file at DataPath.
func Open(cfg *config.Config, log *logrus.Logger) (*KV, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		if dir := filepath.Dir(cfg.DataPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DataPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return NewKV(db, log)
}

// NewKV creates the adapter over an existing connection and migrates the
// schema.
func NewKV(db *gorm.DB, log *logrus.Logger) (*KV, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store schema: %w", err)
	}
	return &KV{db: db, logger: log}, nil
}

// Get decodes the value stored under key into out. The second return is
// false when the key does not exist.
func (kv *KV) Get(key string, out interface{}) (bool, error) {
	var entry KVEntry
	if err := kv.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, &PersistenceError{Op: "get", Key: key, Cause: err}
	}

	if err := json.Unmarshal(entry.Value, out); err != nil {
		return false, &PersistenceError{Op: "decode", Key: key, Cause: err}
	}

	return true, nil
}

// Set stores value under key, replacing any existing entry
func (kv *KV) Set(key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: key, Cause: err}
	}

	entry := KVEntry{Key: key, Value: encoded, UpdatedAt: time.Now().UTC()}
	if err := kv.db.Save(&entry).Error; err != nil {
		return &PersistenceError{Op: "set", Key: key, Cause: err}
	}

	return nil
}

// Remove deletes the entry under key. Removing a missing key is not an
// error.
func (kv *KV) Remove(key string) error {
	if err := kv.db.Where("key = ?", key).Delete(&KVEntry{}).Error; err != nil {
		return &PersistenceError{Op: "remove", Key: key, Cause: err}
	}
	return nil
}
