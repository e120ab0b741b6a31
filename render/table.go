package render

import (
	"strings"
	"time"

	"signalboard/models"
)

// ThemeBlock is one collapsible canonical theme in the theme table.
type ThemeBlock struct {
	Name  string   `json:"name"`
	Total int      `json:"total"`
	Rows  []RawRow `json:"rows"`
}

// RawRow lists the signals filed under one raw theme label.
type RawRow struct {
	Label string `json:"label"`
	Items []Item `json:"items"`
}

// Item is one rendered signal.
type Item struct {
	Ask           string `json:"ask"`
	Priority      string `json:"priority"`
	PriorityClass string `json:"priority_class"`
	Transcript    string `json:"transcript,omitempty"`
	Started       string `json:"started,omitempty"`
	Evidence      string `json:"evidence,omitempty"`
}

// ThemeTable builds the theme blocks. Order and totals come from stats; the
// document walk only produces rows.
func ThemeTable(doc *models.Document, stats models.AggregateStats) []ThemeBlock {
	if doc == nil {
		return nil
	}
	byName := make(map[string]*models.Theme, len(doc.Themes))
	for i := range doc.Themes {
		byName[doc.Themes[i].Name] = &doc.Themes[i]
	}

	blocks := make([]ThemeBlock, 0, len(stats.ThemeCounts))
	for _, tc := range stats.ThemeCounts {
		block := ThemeBlock{Name: tc.Theme, Total: tc.Count}
		if theme, ok := byName[tc.Theme]; ok {
			for _, g := range theme.Groups {
				row := RawRow{Label: g.Label}
				for _, s := range g.Signals {
					row.Items = append(row.Items, newItem(s))
				}
				block.Rows = append(block.Rows, row)
			}
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func newItem(s models.Signal) Item {
	transcript := s.TranscriptTitle
	if transcript == "" {
		transcript = s.TranscriptID
	}
	return Item{
		Ask:           s.Ask,
		Priority:      s.Label(),
		PriorityClass: PriorityClass(s),
		Transcript:    transcript,
		Started:       FormatStarted(s.Started),
		Evidence:      s.Evidence,
	}
}

// PriorityClass is the CSS class for a signal, e.g. "priority-high".
func PriorityClass(s models.Signal) string {
	label := strings.ToLower(strings.Join(strings.Fields(s.Label()), "-"))
	if label == "" {
		label = "medium"
	}
	return "priority-" + label
}

var startedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatStarted renders a transcript start time as a date. Unparseable values
// are returned as-is.
func FormatStarted(v string) string {
	v = strings.TrimSpace(v)
	for _, layout := range startedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return v
}
