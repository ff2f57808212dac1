package normalizer

import (
	"regexp"
	"strings"
	"time"

	"video-summarizer/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// A line must exceed this trimmed length to qualify as a derived brief
	minSubstantialLineLength = 20

	maxBriefLength = 100
	ellipsisMarker = "..."

	maxDerivedKeyPoints = 5

	fallbackBrief       = "Report generated. Open the full report for details."
	placeholderKeyPoint = "See the full report for details."
)

var bulletPattern = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)

// Normalizer converts raw backend payloads into the canonical display and
// history model. All optional-field defaulting lives here, never at render
// time.
type Normalizer struct {
	logger *logrus.Logger
}

// New creates a new normalizer
func New(log *logrus.Logger) *Normalizer {
	return &Normalizer{logger: log}
}

// Normalize builds one SummaryResult from a multi-agent response. The raw
// payload stays with the caller for the tabbed detail view.
func (n *Normalizer) Normalize(raw *models.MultiAgentResponse, sourceURL string) models.SummaryResult {
	result := models.SummaryResult{
		ID:        raw.ID,
		SourceURL: sourceURL,
		Title:     raw.Title,
		Channel:   raw.Channel,
		Duration:  raw.Duration,
		CreatedAt: parseCreatedAt(raw.CreatedAt),
	}

	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	result.DetailedBody = detailedBody(raw)

	extraction := raw.AnalysisResult.SummaryExtraction
	if extraction != nil && strings.TrimSpace(extraction.Brief) != "" {
		result.BriefSummary = strings.TrimSpace(extraction.Brief)
	} else {
		result.BriefSummary = deriveBrief(result.DetailedBody)
	}

	if extraction != nil && len(extraction.KeyPoints) > 0 {
		result.KeyPoints = extraction.KeyPoints
	} else {
		result.KeyPoints = deriveKeyPoints(result.DetailedBody)
	}

	n.logger.WithFields(map[string]interface{}{
		"id":            result.ID,
		"source_url":    result.SourceURL,
		"brief_derived": extraction == nil || strings.TrimSpace(extraction.Brief) == "",
		"key_points":    len(result.KeyPoints),
		"body_length":   len(result.DetailedBody),
	}).Debug("Normalized analysis response")

	return result
}

// FromWireSummary converts one server-side history entry to the canonical
// model, applying the same defaulting rules as Normalize.
func (n *Normalizer) FromWireSummary(wire models.WireSummary) models.SummaryResult {
	result := models.SummaryResult{
		ID:           wire.ID,
		SourceURL:    wire.URL,
		Title:        wire.Title,
		Channel:      wire.Channel,
		Duration:     wire.Duration,
		DetailedBody: wire.DetailedSummary,
		CreatedAt:    parseCreatedAt(wire.CreatedAt),
	}

	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	if brief := strings.TrimSpace(wire.OneLine); brief != "" {
		result.BriefSummary = brief
	} else {
		result.BriefSummary = deriveBrief(result.DetailedBody)
	}

	if len(wire.KeyPoints) > 0 {
		result.KeyPoints = wire.KeyPoints
	} else {
		result.KeyPoints = deriveKeyPoints(result.DetailedBody)
	}

	return result
}

// detailedBody picks the long-form report text from the payload variants
func detailedBody(raw *models.MultiAgentResponse) string {
	if synthesis := raw.AnalysisResult.ReportSynthesis; synthesis != nil && strings.TrimSpace(synthesis.FinalReport) != "" {
		return synthesis.FinalReport
	}
	if strings.TrimSpace(raw.FinalReport) != "" {
		return raw.FinalReport
	}
	if extraction := raw.AnalysisResult.SummaryExtraction; extraction != nil {
		return extraction.Comprehensive
	}
	return ""
}

// deriveBrief builds a short summary from the first substantial line of the
// long-form report.
func deriveBrief(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if len([]rune(trimmed)) <= minSubstantialLineLength {
			continue
		}

		runes := []rune(trimmed)
		if len(runes) > maxBriefLength {
			return string(runes[:maxBriefLength]) + ellipsisMarker
		}
		return trimmed
	}

	return fallbackBrief
}

// deriveKeyPoints collects bulleted lines from the long-form report
func deriveKeyPoints(body string) []string {
	var points []string

	for _, line := range strings.Split(body, "\n") {
		match := bulletPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		point := strings.TrimSpace(match[1])
		if point == "" {
			continue
		}

		points = append(points, point)
		if len(points) == maxDerivedKeyPoints {
			break
		}
	}

	if len(points) == 0 {
		return []string{placeholderKeyPoint}
	}

	return points
}

// parseCreatedAt falls back to the normalization time when the backend
// omits or mangles the timestamp.
func parseCreatedAt(value string) time.Time {
	if value != "" {
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			return parsed
		}
	}
	return time.Now().UTC()
}
