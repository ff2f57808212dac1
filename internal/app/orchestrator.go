package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"video-summarizer/internal/backend"
	"video-summarizer/internal/config"
	"video-summarizer/internal/models"
	"video-summarizer/internal/normalizer"
	"video-summarizer/internal/push"
	"video-summarizer/internal/session"
	"video-summarizer/internal/store"

	"github.com/sirupsen/logrus"
)

// State identifies the orchestrator's position in the app flow
type State string

const (
	StateStarting           State = "starting"
	StateHealthChecking     State = "health_checking"
	StateDisconnected       State = "disconnected"
	StateCollectingIdentity State = "collecting_identity"
	StateInput              State = "input"
	StateViewingSummary     State = "viewing_summary"
	StateViewingReport      State = "viewing_report"
	StateListingHistory     State = "listing_history"
)

var (
	// ErrBusy rejects a submission while another is outstanding
	ErrBusy = errors.New("a submission is already in progress")

	// ErrDisconnected is terminal until process restart: the app has no
	// offline mode.
	ErrDisconnected = errors.New("backend is unreachable, restart to retry")

	// ErrIdentityRequired gates personalized features behind a display name
	ErrIdentityRequired = errors.New("a display name must be set first")

	// ErrNotReady rejects operations before startup completed
	ErrNotReady = errors.New("startup has not completed")
)

// Result pairs the canonical summary with the raw payload retained for the
// tabbed detail view.
type Result struct {
	Summary models.SummaryResult
	Raw     *models.MultiAgentResponse
	Tabs    []models.Tab
}

// Orchestrator coordinates startup sequencing, view selection, and the
// loading/error flags. All mutation goes through it; a single loading flag
// serializes submissions.
type Orchestrator struct {
	cfg        *config.Config
	backend    backend.ClientInterface
	normalizer *normalizer.Normalizer
	history    *store.HistoryStore
	session    *session.Manager
	tokens     push.TokenSource
	logger     *logrus.Logger

	mu      sync.Mutex
	state   State
	loading bool
	current *Result
	notice  string
}

// New creates the orchestrator in its pre-startup state
func New(
	cfg *config.Config,
	client backend.ClientInterface,
	norm *normalizer.Normalizer,
	history *store.HistoryStore,
	sess *session.Manager,
	tokens push.TokenSource,
	log *logrus.Logger,
) *Orchestrator {
	if tokens == nil {
		tokens = push.Disabled{}
	}
	return &Orchestrator{
		cfg:        cfg,
		backend:    client,
		normalizer: norm,
		history:    history,
		session:    sess,
		tokens:     tokens,
		logger:     log,
		state:      StateStarting,
	}
}

// Startup runs the health-check loop and loads persisted state. On
// exhaustion the orchestrator is Disconnected until the process restarts:
// fail-closed, since nothing works without the backend.
func (o *Orchestrator) Startup(ctx context.Context) error {
	o.setState(StateHealthChecking)

	attempts := o.cfg.HealthRetryAttempts
	for attempt := 1; attempt <= attempts; attempt++ {
		health, err := o.backend.CheckHealth(ctx)
		if err == nil && health.Healthy() {
			o.logger.WithField("attempt", attempt).Info("Backend healthy, startup continuing")
			return o.finishStartup()
		}

		fields := map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": attempts,
		}
		if err != nil {
			fields["error"] = err.Error()
		} else {
			fields["status"] = health.Status
		}
		o.logger.WithFields(fields).Warn("Health check attempt failed")

		if attempt < attempts {
			select {
			case <-time.After(o.cfg.HealthRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	o.setState(StateDisconnected)
	o.setNotice(NoticeConnectionFailed)
	return ErrDisconnected
}

// finishStartup loads identity and history once the backend answered
func (o *Orchestrator) finishStartup() error {
	_, hasIdentity := o.session.Load()

	// Warm the history collection; failures already degrade to empty
	stored := o.history.LoadAll()
	o.logger.WithFields(map[string]interface{}{
		"history_count": len(stored),
		"has_identity":  hasIdentity,
	}).Info("Local state loaded")

	if !hasIdentity {
		// No skip path: personalized history requires an identity
		o.setState(StateCollectingIdentity)
	} else {
		o.setState(StateInput)
	}
	return nil
}

// SetIdentity validates and saves the display name, then releases the
// identity gate. Save failures are surfaced, not swallowed.
func (o *Orchestrator) SetIdentity(nickname string) error {
	if o.State() == StateDisconnected {
		return ErrDisconnected
	}

	if err := o.session.SetNickname(nickname); err != nil {
		if session.IsValidationError(err) {
			o.setNotice(NoticeInvalidNickname)
		} else {
			o.setNotice(NoticeSaveFailed)
		}
		return err
	}

	o.mu.Lock()
	if o.state == StateCollectingIdentity {
		o.state = StateInput
	}
	o.mu.Unlock()
	return nil
}

// Identity returns the active display name, empty when none is set
func (o *Orchestrator) Identity() string {
	return o.session.Current()
}

// CheckNickname asks the backend whether a display name is free. Purely
// advisory; failures degrade to unavailable.
func (o *Orchestrator) CheckNickname(ctx context.Context, nickname string) (bool, string) {
	return o.session.CheckAvailability(ctx, nickname)
}

// Dismiss returns to the resting input state and drops the loaded result
func (o *Orchestrator) Dismiss() {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateViewingSummary, StateViewingReport, StateListingHistory:
		o.state = StateInput
		o.current = nil
	}
}

// State returns the current orchestrator state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Current returns the result being viewed, nil at rest
func (o *Orchestrator) Current() *Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Loading reports whether a submission is outstanding
func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// LastNotice returns the most recent user-facing notice
func (o *Orchestrator) LastNotice() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.notice
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

func (o *Orchestrator) setNotice(notice string) {
	o.mu.Lock()
	o.notice = notice
	o.mu.Unlock()
}

func (o *Orchestrator) setViewing(result *Result) {
	o.mu.Lock()
	o.current = result
	o.state = StateViewingReport
	o.mu.Unlock()
}

// guardSubmission flips the loading flag, rejecting overlap
func (o *Orchestrator) guardSubmission() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateDisconnected {
		return ErrDisconnected
	}
	if o.state == StateStarting || o.state == StateHealthChecking {
		return ErrNotReady
	}
	if o.state == StateCollectingIdentity || o.session.Current() == "" {
		return ErrIdentityRequired
	}
	if o.loading {
		return ErrBusy
	}

	o.loading = true
	return nil
}

func (o *Orchestrator) releaseSubmission() {
	o.mu.Lock()
	o.loading = false
	o.mu.Unlock()
}
