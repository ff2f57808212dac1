package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"video-summarizer/internal/config"
	"video-summarizer/internal/models"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(baseURL string) *Client {
	cfg := &config.Config{
		BackendURL:     baseURL,
		HealthTimeout:  200 * time.Millisecond,
		SubmitTimeout:  500 * time.Millisecond,
		HistoryTimeout: 200 * time.Millisecond,
	}

	log, _ := test.NewNullLogger()
	return NewClient(cfg, log)
}

func TestNewClient(t *testing.T) {
	cfg := &config.Config{
		BackendURL:     "http://localhost:8000/",
		HealthTimeout:  5 * time.Second,
		SubmitTimeout:  300 * time.Second,
		HistoryTimeout: 30 * time.Second,
	}
	log, _ := test.NewNullLogger()

	client := NewClient(cfg, log)

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8000", client.baseURL)
	assert.Equal(t, 5*time.Second, client.healthTimeout)
	assert.Equal(t, 300*time.Second, client.submitTimeout)
	assert.NotNil(t, client.httpClient)
}

func TestCheckHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.HealthStatus{
			Status:   "healthy",
			Services: map[string]string{"summarizer": "ok", "transcript": "ok"},
		})
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	health, err := client.CheckHealth(context.Background())

	assert.NoError(t, err)
	assert.True(t, health.Healthy())
	assert.Len(t, health.Services, 2)
}

func TestCheckHealth_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	_, err := client.CheckHealth(context.Background())

	assert.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestCheckHealth_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := setupTestClient(server.URL)

	_, err := client.CheckHealth(context.Background())

	assert.Error(t, err)
	assert.True(t, IsUnreachable(err))
	assert.False(t, IsTimeout(err))
}

func TestSummarize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/summarize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var req SummarizeRequest
		json.Unmarshal(body, &req)
		assert.Equal(t, "https://youtube.com/watch?v=abc123", req.URL)
		assert.Equal(t, "gopher", req.UserID)
		assert.Equal(t, "token-1", req.FCMToken)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.MultiAgentResponse{
			VideoID: "abc123",
			Title:   "Test Video",
			Channel: "Test Channel",
			AnalysisResult: models.AnalysisResult{
				ReportSynthesis: &models.ReportSynthesis{
					FinalReport: "# Report\n- Learn the basics",
				},
			},
			ProcessingStatus: models.ProcessingStatus{
				Status:          "completed",
				CompletedAgents: []string{"report_synthesizer"},
			},
		})
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	result, err := client.Summarize(context.Background(), SummarizeRequest{
		URL:      "https://youtube.com/watch?v=abc123",
		UserID:   "gopher",
		FCMToken: "token-1",
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "abc123", result.VideoID)
	require.NotNil(t, result.AnalysisResult.ReportSynthesis)
	assert.Contains(t, result.AnalysisResult.ReportSynthesis.FinalReport, "Learn the basics")
}

func TestSummarize_ServiceUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"detail": "analysis workers offline"})
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	result, err := client.Summarize(context.Background(), SummarizeRequest{URL: "https://youtube.com/watch?v=x"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsServiceUnavailable(err))
	assert.Contains(t, err.Error(), "analysis workers offline")
}

func TestSummarize_ServerRejected_WithDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "unsupported video"})
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	_, err := client.Summarize(context.Background(), SummarizeRequest{URL: "https://youtube.com/watch?v=x"})

	assert.Error(t, err)
	assert.False(t, IsServiceUnavailable(err))

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadRequest, serverErr.StatusCode)
	assert.Equal(t, "unsupported video", serverErr.Detail)
}

func TestSummarize_ServerRejected_UnparsableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>panic</html>"))
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	_, err := client.Summarize(context.Background(), SummarizeRequest{URL: "https://youtube.com/watch?v=x"})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	assert.Empty(t, serverErr.Detail)
}

func TestFetchHistory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/summaries", r.URL.Path)
		assert.Equal(t, "gopher", r.URL.Query().Get("user_id"))

		json.NewEncoder(w).Encode([]models.WireSummary{
			{URL: "https://youtube.com/watch?v=1", Title: "First", OneLine: "One line"},
			{URL: "https://youtube.com/watch?v=2", Title: "Second", OneLine: "Other line"},
		})
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	summaries, err := client.FetchHistory(context.Background(), "gopher")

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "First", summaries[0].Title)
}

func TestFetchHistory_NoIdentityOmitsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("user_id"))
		json.NewEncoder(w).Encode([]models.WireSummary{})
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	summaries, err := client.FetchHistory(context.Background(), "")

	assert.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestCheckNickname_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/check/gopher", r.URL.Path)
		json.NewEncoder(w).Encode(models.NicknameCheck{Available: true, Message: "ok"})
	}))
	defer server.Close()

	client := setupTestClient(server.URL)

	check, err := client.CheckNickname(context.Background(), "gopher")

	assert.NoError(t, err)
	assert.True(t, check.Available)
	assert.Equal(t, "ok", check.Message)
}
