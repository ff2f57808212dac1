package app

import (
	"context"

	"video-summarizer/internal/config"
	"video-summarizer/internal/models"
)

// OpenHistory refreshes the history collection and moves to the listing
// view. Newest entries come first. Load failures degrade to an empty
// list rather than blocking the view.
func (o *Orchestrator) OpenHistory(ctx context.Context) ([]models.SummaryResult, error) {
	switch o.State() {
	case StateDisconnected:
		return nil, ErrDisconnected
	case StateStarting, StateHealthChecking:
		return nil, ErrNotReady
	case StateCollectingIdentity:
		return nil, ErrIdentityRequired
	}

	var entries []models.SummaryResult
	if o.cfg.HistorySource == config.HistorySourceServer {
		entries = o.fetchServerHistory(ctx)
	} else {
		entries = o.history.LoadAll()
	}

	o.mu.Lock()
	o.state = StateListingHistory
	o.mu.Unlock()
	return entries, nil
}

// fetchServerHistory pulls the account's summaries from the backend,
// falling back to the local collection when the call fails.
func (o *Orchestrator) fetchServerHistory(ctx context.Context) []models.SummaryResult {
	wire, err := o.backend.FetchHistory(ctx, o.session.Current())
	if err != nil {
		o.logger.WithField("error", err.Error()).Warn("Server history fetch failed, using local history")
		o.setNotice(noticeForError(err))
		return o.history.LoadAll()
	}

	entries := make([]models.SummaryResult, 0, len(wire))
	for i := range wire {
		entries = append(entries, o.normalizer.FromWireSummary(wire[i]))
	}
	return entries
}

// SelectHistoryEntry reopens a stored summary in the detail view. Stored
// entries carry no raw payload, so only the canonical fields are shown.
func (o *Orchestrator) SelectHistoryEntry(entry models.SummaryResult) *Result {
	result := &Result{Summary: entry}

	o.mu.Lock()
	o.current = result
	o.state = StateViewingSummary
	o.mu.Unlock()
	return result
}
