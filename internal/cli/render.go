package cli

import (
	"fmt"
	"io"
	"strings"

	"video-summarizer/internal/app"
	"video-summarizer/internal/models"
)

// tab section headings for the report view
var tabTitles = map[models.Tab]string{
	models.TabSynthesis: "Synthesis",
	models.TabSummary:   "Summary",
	models.TabStructure: "Structure",
	models.TabInsights:  "Insights",
	models.TabPractical: "Practical Guide",
}

// renderSummary prints the canonical card: title, brief, key points
func renderSummary(w io.Writer, s models.SummaryResult) {
	fmt.Fprintln(w, s.Title)
	if s.Channel != "" {
		fmt.Fprintf(w, "%s", s.Channel)
		if s.Duration != "" {
			fmt.Fprintf(w, " · %s", s.Duration)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.BriefSummary)

	if len(s.KeyPoints) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Key points:")
		for _, p := range s.KeyPoints {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
}

// renderReport prints the full result with one section per available tab
func renderReport(w io.Writer, result *app.Result) {
	renderSummary(w, result.Summary)

	for _, tab := range result.Tabs {
		body := tabBody(result, tab)
		if body == "" {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionRule(tabTitles[tab]))
		fmt.Fprintln(w, body)
	}
}

// tabBody picks the raw payload section backing a tab
func tabBody(result *app.Result, tab models.Tab) string {
	if result.Raw == nil {
		if tab == models.TabSynthesis {
			return result.Summary.DetailedBody
		}
		return ""
	}

	analysis := result.Raw.AnalysisResult
	switch tab {
	case models.TabSynthesis:
		return result.Summary.DetailedBody
	case models.TabSummary:
		if analysis.SummaryExtraction != nil {
			return analysis.SummaryExtraction.Comprehensive
		}
	case models.TabStructure:
		if analysis.ContentStructure != nil {
			return formatStructure(analysis.ContentStructure)
		}
	case models.TabInsights:
		if analysis.KeyInsights != nil {
			return formatInsights(analysis.KeyInsights)
		}
	case models.TabPractical:
		if analysis.PracticalGuide != nil {
			return formatPracticalGuide(analysis.PracticalGuide)
		}
	}
	return ""
}

func formatStructure(cs *models.ContentStructure) string {
	var b strings.Builder
	for _, s := range cs.Sections {
		if s.StartTime != "" {
			fmt.Fprintf(&b, "[%s-%s] %s\n", s.StartTime, s.EndTime, s.Title)
		} else {
			fmt.Fprintf(&b, "%s\n", s.Title)
		}
		if s.Description != "" {
			fmt.Fprintf(&b, "    %s\n", s.Description)
		}
	}
	for _, ev := range cs.Timeline {
		fmt.Fprintf(&b, "%s  %s\n", ev.Timestamp, ev.Event)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatInsights(ki *models.KeyInsights) string {
	var b strings.Builder
	for _, idea := range ki.MainIdeas {
		fmt.Fprintf(&b, "- %s\n", idea)
		for _, point := range ki.SupportingPoints[idea] {
			fmt.Fprintf(&b, "    %s\n", point)
		}
	}
	for _, conn := range ki.Connections {
		fmt.Fprintf(&b, "~ %s\n", conn)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPracticalGuide(pg *models.PracticalGuide) string {
	var b strings.Builder
	for _, item := range pg.ActionableItems {
		fmt.Fprintf(&b, "[%s] %s\n", item.Priority, item.Item)
		if item.Tip != "" {
			fmt.Fprintf(&b, "    tip: %s\n", item.Tip)
		}
	}
	for _, tip := range pg.Tips {
		fmt.Fprintf(&b, "* %s\n", tip)
	}
	if pg.EstimatedTime != "" {
		fmt.Fprintf(&b, "Estimated time: %s\n", pg.EstimatedTime)
	}
	return strings.TrimRight(b.String(), "\n")
}

// sectionRule renders a heading with an underline
func sectionRule(title string) string {
	return fmt.Sprintf("== %s %s", title, strings.Repeat("=", 3))
}

// renderHistoryList prints one line per stored summary, newest first
func renderHistoryList(w io.Writer, entries []models.SummaryResult) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No summaries yet.")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "%2d. %s\n    %s (%s)\n", i+1, e.Title, e.SourceURL, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}
