package models

import "strings"

// Priority is the resolved priority of a signal.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
	// PriorityOther marks a non-empty label outside High/Medium/Low.
	PriorityOther Priority = "Other"
)

// ResolvePriority maps a raw label onto the closed priority set. Blank labels
// resolve to Medium; canonical names match case-insensitively.
func ResolvePriority(label string) Priority {
	label = strings.TrimSpace(label)
	switch {
	case label == "":
		return PriorityMedium
	case strings.EqualFold(label, string(PriorityHigh)):
		return PriorityHigh
	case strings.EqualFold(label, string(PriorityMedium)):
		return PriorityMedium
	case strings.EqualFold(label, string(PriorityLow)):
		return PriorityLow
	default:
		return PriorityOther
	}
}

// Signal is one extracted customer ask.
type Signal struct {
	Ask             string   `json:"ask"`
	Priority        Priority `json:"priority"`
	PriorityLabel   string   `json:"priority_label,omitempty"` // trimmed label as exported
	TranscriptID    string   `json:"transcript_id,omitempty"`
	TranscriptTitle string   `json:"transcript_title,omitempty"`
	Started         string   `json:"started,omitempty"`
	Evidence        string   `json:"evidence,omitempty"`
}

// Label returns the display label for the signal's priority. Unrecognized
// labels keep their exported spelling.
func (s Signal) Label() string {
	if s.Priority == PriorityOther && s.PriorityLabel != "" {
		return s.PriorityLabel
	}
	if s.Priority == "" {
		return string(PriorityMedium)
	}
	return string(s.Priority)
}

// RawGroup holds the signals filed under one raw theme label.
type RawGroup struct {
	Label string `json:"label"`
	// Count is the length of the exported signals array, malformed entries
	// included.
	Count   int      `json:"count"`
	Signals []Signal `json:"signals"`
}

// Theme is a canonical theme and its raw groups in export order.
type Theme struct {
	Name   string     `json:"name"`
	Groups []RawGroup `json:"groups"`
}

// Total sums the raw group counts.
func (t Theme) Total() int {
	n := 0
	for _, g := range t.Groups {
		n += g.Count
	}
	return n
}

// Issue records a malformed unit skipped while parsing.
type Issue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Document is a parsed signals_by_theme export.
type Document struct {
	Themes []Theme `json:"themes"`
	Issues []Issue `json:"issues,omitempty"`
}

// Theme returns the named canonical theme, or nil.
func (d *Document) Theme(name string) *Theme {
	for i := range d.Themes {
		if d.Themes[i].Name == name {
			return &d.Themes[i]
		}
	}
	return nil
}
