package store

import (
	"github.com/sirupsen/logrus"

	"video-summarizer/internal/models"
)

// HistoryStore keeps the ordered, URL-deduplicated collection of past
// results. Newest entries sit at the front; insertion order is
// authoritative, not timestamp comparison. There is no eviction.
type HistoryStore struct {
	kv     *KV
	logger *logrus.Logger
}

// NewHistoryStore creates a new history store over the key-value adapter
func NewHistoryStore(kv *KV, log *logrus.Logger) *HistoryStore {
	return &HistoryStore{kv: kv, logger: log}
}

// Append inserts a result at the front. An existing entry with the same
// source URL is removed first, so resubmitting a URL replaces rather than
// duplicates. The full collection is persisted on every call.
func (h *HistoryStore) Append(result models.SummaryResult) error {
	existing := h.LoadAll()

	updated := make([]models.SummaryResult, 0, len(existing)+1)
	updated = append(updated, result)
	for _, entry := range existing {
		if entry.SourceURL == result.SourceURL {
			continue
		}
		updated = append(updated, entry)
	}

	if err := h.kv.Set(KeyHistory, updated); err != nil {
		return err
	}

	h.logger.WithFields(map[string]interface{}{
		"source_url": result.SourceURL,
		"count":      len(updated),
	}).Info("History entry persisted")

	return nil
}

// LoadAll returns the persisted collection. History is best-effort: a
// missing or unreadable collection yields an empty list, never an error.
func (h *HistoryStore) LoadAll() []models.SummaryResult {
	var results []models.SummaryResult

	found, err := h.kv.Get(KeyHistory, &results)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load history, starting empty")
		return []models.SummaryResult{}
	}
	if !found || results == nil {
		return []models.SummaryResult{}
	}

	return results
}
