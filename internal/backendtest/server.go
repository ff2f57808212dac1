// Package backendtest provides a scriptable in-process double of the
// summarization backend for end-to-end tests.
package backendtest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"video-summarizer/internal/models"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// SubmittedRequest records one summarize call for assertions
type SubmittedRequest struct {
	URL      string `json:"url"`
	UserID   string `json:"user_id"`
	FCMToken string `json:"fcm_token"`
}

// Server fakes the four backend endpoints. Behavior is scripted per test
// through the setters; the zero script answers healthy and returns a
// minimal completed analysis.
type Server struct {
	httpServer *httptest.Server

	mu              sync.Mutex
	healthStatus    string
	healthFailures  int
	healthCalls     int
	summarizeStatus int
	summarizeDetail string
	summarizeDelay  time.Duration
	response        *models.MultiAgentResponse
	summaries       map[string][]models.WireSummary
	takenNicknames  map[string]bool
	submitted       []SubmittedRequest
}

// NewServer starts the stub on an ephemeral port
func NewServer() *Server {
	s := &Server{
		healthStatus:    "healthy",
		summarizeStatus: http.StatusOK,
		summaries:       make(map[string][]models.WireSummary),
		takenNicknames:  make(map[string]bool),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/summarize", s.handleSummarize)
		api.GET("/summaries", s.handleSummaries)
		api.GET("/auth/check/:nickname", s.handleNicknameCheck)
	}

	s.httpServer = httptest.NewServer(router)
	return s
}

// URL returns the stub's base URL
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the stub down
func (s *Server) Close() {
	s.httpServer.Close()
}

// ScriptHealthFailures makes the next n health checks answer 503
func (s *Server) ScriptHealthFailures(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthFailures = n
}

// SetHealthStatus overrides the reported health status string
func (s *Server) SetHealthStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthStatus = status
}

// FailSummarize scripts summarize to answer the given status and detail
func (s *Server) FailSummarize(status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summarizeStatus = status
	s.summarizeDetail = detail
}

// DelaySummarize holds each summarize response for d before answering
func (s *Server) DelaySummarize(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summarizeDelay = d
}

// RespondWith sets the analysis payload summarize returns
func (s *Server) RespondWith(resp *models.MultiAgentResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = resp
}

// AddServerSummary seeds the server-side history for an identity
func (s *Server) AddServerSummary(userID string, summary models.WireSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[userID] = append(s.summaries[userID], summary)
}

// ReserveNickname marks a display name as taken
func (s *Server) ReserveNickname(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.takenNicknames[nickname] = true
}

// HealthCalls reports how many health probes were received
func (s *Server) HealthCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthCalls
}

// Submitted returns the summarize requests received so far
func (s *Server) Submitted() []SubmittedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SubmittedRequest, len(s.submitted))
	copy(out, s.submitted)
	return out
}

func (s *Server) handleHealth(c *gin.Context) {
	s.mu.Lock()
	s.healthCalls++
	failing := s.healthFailures > 0
	if failing {
		s.healthFailures--
	}
	status := s.healthStatus
	s.mu.Unlock()

	if failing {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "backend warming up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"services": gin.H{
			"summarizer": status,
		},
	})
}

func (s *Server) handleSummarize(c *gin.Context) {
	var req SubmittedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	s.mu.Lock()
	s.submitted = append(s.submitted, req)
	status := s.summarizeStatus
	detail := s.summarizeDetail
	delay := s.summarizeDelay
	resp := s.response
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if status != http.StatusOK {
		c.JSON(status, gin.H{"detail": detail})
		return
	}

	if resp == nil {
		resp = DefaultResponse(req.URL)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSummaries(c *gin.Context) {
	userID := c.Query("user_id")

	s.mu.Lock()
	entries := append([]models.WireSummary(nil), s.summaries[userID]...)
	s.mu.Unlock()

	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleNicknameCheck(c *gin.Context) {
	nickname := c.Param("nickname")

	s.mu.Lock()
	taken := s.takenNicknames[nickname]
	s.mu.Unlock()

	if taken {
		c.JSON(http.StatusOK, gin.H{"available": false, "message": "nickname already in use"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}

// DefaultResponse builds a minimal completed analysis for a URL
func DefaultResponse(url string) *models.MultiAgentResponse {
	return &models.MultiAgentResponse{
		VideoID: "stub-video",
		Title:   "Stubbed Video",
		Channel: "Stub Channel",
		AnalysisResult: models.AnalysisResult{
			ReportSynthesis: &models.ReportSynthesis{
				FinalReport: "A stubbed report for " + url + " covering the essentials in depth.\n\n- First stubbed point\n- Second stubbed point",
			},
		},
		ProcessingStatus: models.ProcessingStatus{
			Status:          "completed",
			CompletedAgents: []string{"transcript_refiner", "report_synthesizer"},
		},
	}
}
