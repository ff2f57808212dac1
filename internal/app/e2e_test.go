package app

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"video-summarizer/internal/backend"
	"video-summarizer/internal/backendtest"
	"video-summarizer/internal/config"
	"video-summarizer/internal/models"
	"video-summarizer/internal/normalizer"
	"video-summarizer/internal/push"
	"video-summarizer/internal/session"
	"video-summarizer/internal/store"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubbedOrchestrator wires the real client and stores against the
// in-process backend stub.
func newStubbedOrchestrator(t *testing.T, stub *backendtest.Server) *Orchestrator {
	t.Helper()

	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		BackendURL:          stub.URL(),
		HealthTimeout:       2 * time.Second,
		SubmitTimeout:       5 * time.Second,
		HistoryTimeout:      2 * time.Second,
		HealthRetryAttempts: 3,
		HealthRetryDelay:    time.Millisecond,
		DataPath:            filepath.Join(t.TempDir(), "test.db"),
		HistorySource:       config.HistorySourceLocal,
	}

	client := backend.NewClient(cfg, log)
	kv, err := store.Open(cfg, log)
	require.NoError(t, err)

	history := store.NewHistoryStore(kv, log)
	sess := session.NewManager(kv, client, log)
	norm := normalizer.New(log)

	return New(cfg, client, norm, history, sess, push.Disabled{}, log)
}

func TestEndToEndSubmitFlow(t *testing.T) {
	stub := backendtest.NewServer()
	defer stub.Close()

	orch := newStubbedOrchestrator(t, stub)
	require.NoError(t, orch.Startup(context.Background()))
	require.NoError(t, orch.SetIdentity("gopher"))

	result, err := orch.Submit(context.Background(), "https://youtu.be/abc123")

	require.NoError(t, err)
	assert.Equal(t, StateViewingReport, orch.State())
	assert.Equal(t, "Stubbed Video", result.Summary.Title)
	assert.Equal(t, []string{"First stubbed point", "Second stubbed point"}, result.Summary.KeyPoints)

	submitted := stub.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "https://youtu.be/abc123", submitted[0].URL)
	assert.Equal(t, "gopher", submitted[0].UserID)
}

func TestEndToEndStartupRecoversAfterTransientFailures(t *testing.T) {
	stub := backendtest.NewServer()
	defer stub.Close()
	stub.ScriptHealthFailures(2)

	orch := newStubbedOrchestrator(t, stub)

	require.NoError(t, orch.Startup(context.Background()))
	assert.Equal(t, 3, stub.HealthCalls())
}

func TestEndToEndServiceUnavailable(t *testing.T) {
	stub := backendtest.NewServer()
	defer stub.Close()
	stub.FailSummarize(http.StatusServiceUnavailable, "AI service is temporarily unavailable")

	orch := newStubbedOrchestrator(t, stub)
	require.NoError(t, orch.Startup(context.Background()))
	require.NoError(t, orch.SetIdentity("gopher"))

	_, err := orch.Submit(context.Background(), "https://youtu.be/abc123")

	assert.True(t, backend.IsServiceUnavailable(err))
	assert.Equal(t, NoticeServiceUnavailable, orch.LastNotice())
}

func TestEndToEndServerHistory(t *testing.T) {
	stub := backendtest.NewServer()
	defer stub.Close()
	stub.AddServerSummary("gopher", models.WireSummary{
		ID:      "s1",
		URL:     "https://youtu.be/remote",
		Title:   "Remote Entry",
		OneLine: "A remote summary.",
	})

	orch := newStubbedOrchestrator(t, stub)
	orch.cfg.HistorySource = config.HistorySourceServer
	require.NoError(t, orch.Startup(context.Background()))
	require.NoError(t, orch.SetIdentity("gopher"))

	entries, err := orch.OpenHistory(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Remote Entry", entries[0].Title)
}

func TestEndToEndNicknameAvailability(t *testing.T) {
	stub := backendtest.NewServer()
	defer stub.Close()
	stub.ReserveNickname("taken")

	orch := newStubbedOrchestrator(t, stub)
	require.NoError(t, orch.Startup(context.Background()))

	available, _ := orch.session.CheckAvailability(context.Background(), "taken")
	assert.False(t, available)

	available, _ = orch.session.CheckAvailability(context.Background(), "fresh")
	assert.True(t, available)
}
