package push

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"video-summarizer/internal/config"
	"video-summarizer/internal/store"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	token          string
	tokenErr       error
	granted        bool
	permissionErr  error
	tokenCalls     int
	permissionCalls int
}

func (f *fakeSource) Token(ctx context.Context) (string, error) {
	f.tokenCalls++
	return f.token, f.tokenErr
}

func (f *fakeSource) RequestPermission(ctx context.Context) (bool, error) {
	f.permissionCalls++
	return f.granted, f.permissionErr
}

func setupTestCached(t *testing.T) (*CachedTokenSource, *fakeSource) {
	t.Helper()

	cfg := &config.Config{DataPath: filepath.Join(t.TempDir(), "test.db")}
	log, _ := test.NewNullLogger()

	kv, err := store.Open(cfg, log)
	require.NoError(t, err)

	source := &fakeSource{token: "token-1", granted: true}
	return NewCachedTokenSource(source, kv, log), source
}

func TestDisabled_NoOps(t *testing.T) {
	source := Disabled{}

	token, err := source.Token(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, token)

	granted, err := source.RequestPermission(context.Background())
	assert.NoError(t, err)
	assert.False(t, granted)
}

func TestCached_TokenAcquiredAndCached(t *testing.T) {
	cached, source := setupTestCached(t)

	token, err := cached.Token(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, source.tokenCalls)

	// Second call served from cache
	token, err = cached.Token(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, source.tokenCalls)
}

func TestCached_PermissionAskedOnce(t *testing.T) {
	cached, source := setupTestCached(t)
	source.granted = false

	granted, err := cached.RequestPermission(context.Background())
	assert.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, 1, source.permissionCalls)

	// The recorded denial is reused without re-prompting
	granted, err = cached.RequestPermission(context.Background())
	assert.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, 1, source.permissionCalls)
}

func TestCached_DeniedPermissionYieldsNoToken(t *testing.T) {
	cached, source := setupTestCached(t)
	source.granted = false

	token, err := cached.Token(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Zero(t, source.tokenCalls)
}

func TestCached_SourceFailuresAreSwallowed(t *testing.T) {
	cached, source := setupTestCached(t)
	source.tokenErr = errors.New("messaging module missing")

	token, err := cached.Token(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestCached_PermissionFailureSwallowed(t *testing.T) {
	cached, source := setupTestCached(t)
	source.permissionErr = errors.New("no permission API")

	granted, err := cached.RequestPermission(context.Background())

	assert.NoError(t, err)
	assert.False(t, granted)
}

func TestCached_Refresh(t *testing.T) {
	cached, source := setupTestCached(t)

	_, err := cached.Token(context.Background())
	require.NoError(t, err)

	source.token = "token-2"
	token, err := cached.Refresh(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, 2, source.tokenCalls)
}
