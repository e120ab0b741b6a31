// Package render turns aggregate statistics and parsed exports into the
// dashboard's views: summary cards, charts, the theme table, the HTML page
// and the terminal summary.
package render

import "signalboard/models"

// Card is one labeled KPI.
type Card struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// SummaryView is the KPI card row.
type SummaryView struct {
	Cards []Card `json:"cards"`
}

// Summary builds the three KPI cards from stats.
func Summary(stats models.AggregateStats) *SummaryView {
	return &SummaryView{Cards: []Card{
		{ID: "total-signals", Label: "Total signals", Value: stats.TotalSignals},
		{ID: "total-themes", Label: "Themes", Value: stats.TotalThemes},
		{ID: "total-transcripts", Label: "Transcripts", Value: stats.TotalTranscripts},
	}}
}
