package normalizer

import "video-summarizer/internal/models"

// agentToTab maps backend analysis stage names to front-end tabs. The
// backend emits stage names; this table is the single place where that
// contract is encoded. Unknown stage names are dropped.
var agentToTab = map[string]models.Tab{
	"transcript_refiner": models.TabSummary,
	"speaker_diarizer":   models.TabSummary,
	"topic_cohesion":     models.TabInsights,
	"structure_designer": models.TabStructure,
	"report_synthesizer": models.TabSynthesis,
}

// tabOrder is the fixed display order of the report tabs
var tabOrder = []models.Tab{
	models.TabSynthesis,
	models.TabSummary,
	models.TabStructure,
	models.TabInsights,
	models.TabPractical,
}

// AvailableTabs computes the set of report tabs backed by a completed
// agent, in display order. The synthesis tab is always present: it is the
// fallback view even when the synthesizer itself failed. Pure function,
// recomputed whenever the underlying result changes.
func AvailableTabs(completedAgents []string) []models.Tab {
	present := map[models.Tab]bool{
		models.TabSynthesis: true,
	}

	for _, agent := range completedAgents {
		if tab, ok := agentToTab[agent]; ok {
			present[tab] = true
		}
	}

	tabs := make([]models.Tab, 0, len(present))
	for _, tab := range tabOrder {
		if present[tab] {
			tabs = append(tabs, tab)
		}
	}

	return tabs
}
