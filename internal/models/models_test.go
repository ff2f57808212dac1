package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiAgentResponse_DecodePartialPayload(t *testing.T) {
	// Only two of five agents completed; the rest are absent from the body.
	raw := `{
		"video_id": "abc123",
		"title": "Go Concurrency Patterns",
		"channel": "GopherCon",
		"duration": "25:31",
		"language": "en",
		"analysis_result": {
			"summary_extraction": {
				"brief": "A walkthrough of common Go concurrency patterns.",
				"key_points": ["Channels compose", "Select multiplexes"],
				"comprehensive": "Full text here."
			},
			"report_synthesis": {
				"final_report": "# Report\nChannels compose well."
			}
		},
		"processing_status": {
			"status": "completed",
			"completed_agents": ["transcript_refiner", "report_synthesizer"],
			"failed_agents": ["structure_designer"],
			"total_processing_time": 92.4
		},
		"transcript_available": true,
		"analysis_type": "multi_agent",
		"processing_time": 92.4
	}`

	var resp MultiAgentResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.Equal(t, "abc123", resp.VideoID)
	require.NotNil(t, resp.AnalysisResult.SummaryExtraction)
	assert.Equal(t, "A walkthrough of common Go concurrency patterns.", resp.AnalysisResult.SummaryExtraction.Brief)
	require.NotNil(t, resp.AnalysisResult.ReportSynthesis)
	assert.Nil(t, resp.AnalysisResult.ContentStructure)
	assert.Nil(t, resp.AnalysisResult.KeyInsights)
	assert.Nil(t, resp.AnalysisResult.PracticalGuide)
	assert.Equal(t, []string{"transcript_refiner", "report_synthesizer"}, resp.ProcessingStatus.CompletedAgents)
	assert.Equal(t, []string{"structure_designer"}, resp.ProcessingStatus.FailedAgents)
}

func TestHealthStatus_Healthy(t *testing.T) {
	assert.True(t, HealthStatus{Status: "healthy"}.Healthy())
	assert.False(t, HealthStatus{Status: "degraded"}.Healthy())
	assert.False(t, HealthStatus{}.Healthy())
}
