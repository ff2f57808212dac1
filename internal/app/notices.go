package app

import (
	"video-summarizer/internal/backend"
	"video-summarizer/internal/session"
	"video-summarizer/internal/store"
)

// User-facing notices. Raw transport and server strings never reach the
// user; every failure maps onto one of these.
const (
	NoticeConnectionFailed   = "Connection failed. Check your network and restart."
	NoticeInvalidURL         = "That does not look like a valid YouTube link."
	NoticeInvalidNickname    = "Display names must be between 2 and 20 characters."
	NoticeServiceUnavailable = "The summarization service is temporarily unavailable. Try again shortly."
	NoticeRequestTimedOut    = "The request timed out. Long videos can take a while, try again."
	NoticeSummaryFailed      = "Summary generation failed. Try again later."
	NoticeSaveFailed         = "Could not save your settings."
	NoticeBusy               = "A summary is already in progress."
)

// noticeForError maps internal error categories onto fixed notices
func noticeForError(err error) string {
	switch {
	case err == nil:
		return ""
	case backend.IsServiceUnavailable(err):
		return NoticeServiceUnavailable
	case backend.IsTimeout(err):
		return NoticeRequestTimedOut
	case backend.IsUnreachable(err):
		return NoticeConnectionFailed
	case session.IsValidationError(err):
		return NoticeInvalidNickname
	case store.IsPersistenceError(err):
		return NoticeSaveFailed
	default:
		return NoticeSummaryFailed
	}
}
