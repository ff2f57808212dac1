package app

import (
	"context"
	"regexp"
	"strings"

	"video-summarizer/internal/backend"
	"video-summarizer/internal/normalizer"

	"github.com/google/uuid"
)

// ErrInvalidURL rejects submissions that do not point at a YouTube video
var ErrInvalidURL = &URLError{Message: "not a recognized YouTube video URL"}

// URLError reports a rejected submission URL
type URLError struct {
	Message string
}

func (e *URLError) Error() string {
	return "invalid url: " + e.Message
}

// youtubePattern accepts watch, embed, and short-link forms, with or
// without scheme and www.
var youtubePattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com/(watch\?v=|embed/)|youtu\.be/)[\w-]+`)

// ValidateURL checks that the input is a submittable YouTube link
func ValidateURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" || !youtubePattern.MatchString(trimmed) {
		return ErrInvalidURL
	}
	return nil
}

// Submit sends a video URL through the full pipeline: validate, guard,
// resolve push token, summarize, normalize, record, display. On any
// failure the previously viewed result and state are left untouched.
func (o *Orchestrator) Submit(ctx context.Context, rawURL string) (*Result, error) {
	trimmed := strings.TrimSpace(rawURL)
	if err := ValidateURL(trimmed); err != nil {
		o.setNotice(NoticeInvalidURL)
		return nil, err
	}

	if err := o.guardSubmission(); err != nil {
		if err == ErrBusy {
			o.setNotice(NoticeBusy)
		}
		return nil, err
	}
	defer o.releaseSubmission()

	correlationID := uuid.New().String()
	ctx = context.WithValue(ctx, "correlation_id", correlationID)

	nickname := o.session.Current()

	// Token resolution is best-effort; a missing token only means no
	// completion notification.
	token, err := o.tokens.Token(ctx)
	if err != nil {
		o.logger.WithField("error", err.Error()).Warn("Push token resolution failed")
		token = ""
	}

	o.logger.WithFields(map[string]interface{}{
		"correlation_id": correlationID,
		"url":            trimmed,
		"nickname":       nickname,
		"has_token":      token != "",
	}).Info("Submitting video for summarization")

	raw, err := o.backend.Summarize(ctx, backend.SummarizeRequest{
		URL:      trimmed,
		UserID:   nickname,
		FCMToken: token,
	})
	if err != nil {
		o.setNotice(noticeForError(err))
		o.logger.WithFields(map[string]interface{}{
			"url":   trimmed,
			"error": err.Error(),
		}).Error("Summarization request failed")
		return nil, err
	}

	summary := o.normalizer.Normalize(raw, trimmed)
	result := &Result{
		Summary: summary,
		Raw:     raw,
		Tabs:    normalizer.AvailableTabs(raw.ProcessingStatus.CompletedAgents),
	}

	// Write-through: the history entry must exist before the result is
	// shown, so a crash cannot lose a completed summary.
	if err := o.history.Append(summary); err != nil {
		o.logger.WithFields(map[string]interface{}{
			"id":    summary.ID,
			"error": err.Error(),
		}).Warn("History write failed, result shown without being recorded")
	}

	o.setViewing(result)
	o.setNotice("")
	return result, nil
}
