package push

import (
	"context"

	"video-summarizer/internal/store"

	"github.com/sirupsen/logrus"
)

// TokenSource is the push-notification collaborator. Implementations may
// no-op in environments without the capability; callers must tolerate an
// empty token without failing the primary flow.
type TokenSource interface {
	// Token returns the current registration token, empty when unavailable
	Token(ctx context.Context) (string, error)

	// RequestPermission prompts for notification permission
	RequestPermission(ctx context.Context) (bool, error)
}

// Disabled is the token source for environments without push support
type Disabled struct{}

func (Disabled) Token(ctx context.Context) (string, error)             { return "", nil }
func (Disabled) RequestPermission(ctx context.Context) (bool, error)   { return false, nil }

// CachedTokenSource wraps a real source with the key-value store: the
// token is cached and the permission prompt is shown at most once per
// installation. Every failure is logged and swallowed; push is never on
// the critical path.
type CachedTokenSource struct {
	source TokenSource
	kv     *store.KV
	logger *logrus.Logger
}

// NewCachedTokenSource creates a caching wrapper around source
func NewCachedTokenSource(source TokenSource, kv *store.KV, log *logrus.Logger) *CachedTokenSource {
	return &CachedTokenSource{source: source, kv: kv, logger: log}
}

// Token returns the cached token, acquiring and caching a fresh one after
// a granted permission. Returns empty without error on any failure.
func (c *CachedTokenSource) Token(ctx context.Context) (string, error) {
	var cached string
	if found, err := c.kv.Get(store.KeyFCMToken, &cached); err == nil && found && cached != "" {
		return cached, nil
	}

	granted, err := c.RequestPermission(ctx)
	if err != nil || !granted {
		return "", nil
	}

	token, err := c.source.Token(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Push token acquisition failed")
		return "", nil
	}
	if token == "" {
		return "", nil
	}

	if err := c.kv.Set(store.KeyFCMToken, token); err != nil {
		c.logger.WithError(err).Warn("Failed to cache push token")
	}

	return token, nil
}

// RequestPermission prompts at most once; the recorded answer is reused
// on later calls.
func (c *CachedTokenSource) RequestPermission(ctx context.Context) (bool, error) {
	var granted bool
	if found, err := c.kv.Get(store.KeyFCMPermissionChecked, &granted); err == nil && found {
		return granted, nil
	}

	granted, err := c.source.RequestPermission(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Push permission request failed")
		return false, nil
	}

	if err := c.kv.Set(store.KeyFCMPermissionChecked, granted); err != nil {
		c.logger.WithError(err).Warn("Failed to record push permission answer")
	}

	return granted, nil
}

// Refresh drops the cached token and acquires a new one
func (c *CachedTokenSource) Refresh(ctx context.Context) (string, error) {
	if err := c.kv.Remove(store.KeyFCMToken); err != nil {
		c.logger.WithError(err).Warn("Failed to drop cached push token")
	}
	return c.Token(ctx)
}
