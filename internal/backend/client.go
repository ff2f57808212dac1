package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"video-summarizer/internal/config"
	"video-summarizer/internal/models"

	"github.com/sirupsen/logrus"
)

// ClientInterface defines the operations the app needs from the backend
type ClientInterface interface {
	CheckHealth(ctx context.Context) (models.HealthStatus, error)
	Summarize(ctx context.Context, req SummarizeRequest) (*models.MultiAgentResponse, error)
	FetchHistory(ctx context.Context, userID string) ([]models.WireSummary, error)
	CheckNickname(ctx context.Context, nickname string) (models.NicknameCheck, error)
}

// Client talks to the summarization backend. Every operation is a single
// attempt; the startup health-check retry loop belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	healthTimeout  time.Duration
	submitTimeout  time.Duration
	historyTimeout time.Duration
}

// SummarizeRequest is the body for POST /api/summarize
type SummarizeRequest struct {
	URL      string `json:"url"`
	UserID   string `json:"user_id,omitempty"`
	FCMToken string `json:"fcm_token,omitempty"`
}

// errorBody is the backend's error response shape
type errorBody struct {
	Detail string `json:"detail"`
}

// NewClient creates a new backend client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BackendURL, "/"),
		httpClient:     &http.Client{},
		logger:         log,
		healthTimeout:  cfg.HealthTimeout,
		submitTimeout:  cfg.SubmitTimeout,
		historyTimeout: cfg.HistoryTimeout,
	}
}

// CheckHealth performs a single health probe with a short timeout
func (c *Client) CheckHealth(ctx context.Context) (models.HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	var health models.HealthStatus
	if err := c.getJSON(ctx, "health_check", "/api/health", nil, &health); err != nil {
		return models.HealthStatus{}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"correlation_id": getCorrelationIDFromContext(ctx),
		"status":         health.Status,
		"services":       len(health.Services),
	}).Info("Backend health check succeeded")

	return health, nil
}

// Summarize submits a URL for multi-agent analysis. The backend runs every
// agent before answering, so the timeout is long and the call is never
// retried: a retry would duplicate an expensive analysis job.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) (*models.MultiAgentResponse, error) {
	start := time.Now()
	correlationID := getCorrelationIDFromContext(ctx)

	c.logger.WithFields(map[string]interface{}{
		"correlation_id": correlationID,
		"url":            req.URL,
		"has_user_id":    req.UserID != "",
		"has_fcm_token":  req.FCMToken != "",
	}).Info("Submitting URL for analysis")

	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summarize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/summarize", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError("summarize", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus("summarize", resp.StatusCode, extractDetail(responseBody))
	}

	var result models.MultiAgentResponse
	if err := json.Unmarshal(responseBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse summarize response: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"correlation_id":   correlationID,
		"duration_ms":      time.Since(start).Milliseconds(),
		"video_id":         result.VideoID,
		"title":            result.Title,
		"completed_agents": len(result.ProcessingStatus.CompletedAgents),
		"failed_agents":    len(result.ProcessingStatus.FailedAgents),
	}).Info("Analysis response received")

	return &result, nil
}

// FetchHistory loads the server-side history for an identity
func (c *Client) FetchHistory(ctx context.Context, userID string) ([]models.WireSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, c.historyTimeout)
	defer cancel()

	query := url.Values{}
	if userID != "" {
		query.Set("user_id", userID)
	}

	var summaries []models.WireSummary
	if err := c.getJSON(ctx, "fetch_history", "/api/summaries", query, &summaries); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"correlation_id": getCorrelationIDFromContext(ctx),
		"user_id":        userID,
		"count":          len(summaries),
	}).Info("Server history fetched")

	return summaries, nil
}

// CheckNickname asks the backend whether a display name is free
func (c *Client) CheckNickname(ctx context.Context, nickname string) (models.NicknameCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, c.historyTimeout)
	defer cancel()

	var check models.NicknameCheck
	path := "/api/auth/check/" + url.PathEscape(nickname)
	if err := c.getJSON(ctx, "check_nickname", path, nil, &check); err != nil {
		return models.NicknameCheck{}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"correlation_id": getCorrelationIDFromContext(ctx),
		"nickname":       nickname,
		"available":      check.Available,
	}).Info("Nickname availability checked")

	return check, nil
}

// getJSON performs a GET and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", target, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return classifyTransportError(op, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(op, resp.StatusCode, extractDetail(responseBody))
	}

	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", op, err)
	}

	return nil
}

// extractDetail pulls the backend's detail message out of an error body
func extractDetail(body []byte) string {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

// getCorrelationIDFromContext extracts correlation ID from context
func getCorrelationIDFromContext(ctx context.Context) string {
	if id := ctx.Value("correlation_id"); id != nil {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
