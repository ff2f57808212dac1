package models

import "time"

// SummaryResult is the canonical display and history unit. The normalizer
// guarantees ID, BriefSummary and CreatedAt are always populated.
type SummaryResult struct {
	ID           string    `json:"id"`
	SourceURL    string    `json:"source_url"`
	Title        string    `json:"title,omitempty"`
	Channel      string    `json:"channel,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	BriefSummary string    `json:"brief_summary"`
	KeyPoints    []string  `json:"key_points"`
	DetailedBody string    `json:"detailed_body"`
	CreatedAt    time.Time `json:"created_at"`
}

// MultiAgentResponse is the backend's wire shape for POST /api/summarize.
// Each agent payload is independently optional since agents fail
// independently.
type MultiAgentResponse struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Duration string `json:"duration"`
	Language string `json:"language"`

	AnalysisResult AnalysisResult `json:"analysis_result"`

	ProcessingStatus ProcessingStatus `json:"processing_status"`

	// Duplicate of report_synthesis.final_report for quick access
	FinalReport string `json:"final_report,omitempty"`

	TranscriptAvailable bool    `json:"transcript_available"`
	AnalysisType        string  `json:"analysis_type"`
	ProcessingTime      float64 `json:"processing_time"`

	ID           string `json:"id,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UserNickname string `json:"user_nickname,omitempty"`
}

// AnalysisResult groups the per-agent payloads
type AnalysisResult struct {
	SummaryExtraction *SummaryExtraction `json:"summary_extraction,omitempty"`
	ContentStructure  *ContentStructure  `json:"content_structure,omitempty"`
	KeyInsights       *KeyInsights       `json:"key_insights,omitempty"`
	PracticalGuide    *PracticalGuide    `json:"practical_guide,omitempty"`
	ReportSynthesis   *ReportSynthesis   `json:"report_synthesis,omitempty"`
}

// SummaryExtraction is the summary agent's payload
type SummaryExtraction struct {
	Brief           string   `json:"brief"`
	KeyPoints       []string `json:"key_points"`
	Comprehensive   string   `json:"comprehensive"`
	ConfidenceScore float64  `json:"confidence_score,omitempty"`
}

// ContentStructure is the structure agent's payload
type ContentStructure struct {
	Sections      []Section       `json:"sections"`
	Timeline      []TimelineEvent `json:"timeline"`
	TotalSections int             `json:"total_sections,omitempty"`
}

// Section is one structural unit of the analyzed video
type Section struct {
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

// TimelineEvent is one entry of the structure agent's timeline
type TimelineEvent struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	Importance string `json:"importance"` // high, medium, low
}

// KeyInsights is the insights agent's payload
type KeyInsights struct {
	MainIdeas        []string            `json:"main_ideas"`
	SupportingPoints map[string][]string `json:"supporting_points"`
	Connections      []string            `json:"connections,omitempty"`
}

// PracticalGuide is the practical agent's payload
type PracticalGuide struct {
	ActionableItems []ActionableItem `json:"actionable_items"`
	Tips            []string         `json:"tips"`
	EstimatedTime   string           `json:"estimated_time,omitempty"`
}

// ActionableItem is one action from the practical guide
type ActionableItem struct {
	Item     string `json:"item"`
	Priority string `json:"priority"` // high, medium, low
	Tip      string `json:"tip,omitempty"`
}

// ReportSynthesis is the synthesis agent's payload, the fallback view
type ReportSynthesis struct {
	FinalReport     string   `json:"final_report"`
	KeyTakeaways    []string `json:"key_takeaways,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ProcessingStatus tracks which agents completed for a request
type ProcessingStatus struct {
	Status              string   `json:"status"` // pending, processing, completed, failed
	CompletedAgents     []string `json:"completed_agents"`
	FailedAgents        []string `json:"failed_agents"`
	CurrentAgent        string   `json:"current_agent,omitempty"`
	CurrentProgress     float64  `json:"current_progress,omitempty"`
	TotalProcessingTime float64  `json:"total_processing_time"`
	Message             string   `json:"message,omitempty"`
}

// WireSummary is the backend's condensed shape for GET /api/summaries
type WireSummary struct {
	ID              string   `json:"id,omitempty"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Channel         string   `json:"channel"`
	Duration        string   `json:"duration,omitempty"`
	OneLine         string   `json:"one_line"`
	KeyPoints       []string `json:"key_points"`
	DetailedSummary string   `json:"detailed_summary"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// HealthStatus is the GET /api/health response
type HealthStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Healthy reports whether the backend considers itself fully operational
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// NicknameCheck is the GET /api/auth/check/{nickname} response
type NicknameCheck struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// Tab identifies one front-end report tab
type Tab string

const (
	TabSynthesis Tab = "synthesis"
	TabSummary   Tab = "summary"
	TabStructure Tab = "structure"
	TabInsights  Tab = "insights"
	TabPractical Tab = "practical"
)
