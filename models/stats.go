package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ThemeCount is one canonical theme's signal count.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// LabelCount is one priority histogram bucket.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PriorityCounts is the priority histogram. High, Medium and Low always
// exist; Extra holds buckets outside that set in first-seen order.
type PriorityCounts struct {
	High   int
	Medium int
	Low    int
	Extra  []LabelCount
}

// Add increments the bucket for label, creating an extra bucket if needed.
func (p *PriorityCounts) Add(label string) {
	switch label {
	case string(PriorityHigh):
		p.High++
	case string(PriorityMedium):
		p.Medium++
	case string(PriorityLow):
		p.Low++
	default:
		for i := range p.Extra {
			if p.Extra[i].Label == label {
				p.Extra[i].Count++
				return
			}
		}
		p.Extra = append(p.Extra, LabelCount{Label: label, Count: 1})
	}
}

// Canonical returns High+Medium+Low.
func (p PriorityCounts) Canonical() int {
	return p.High + p.Medium + p.Low
}

// Buckets lists every bucket in display order, zero counts included.
func (p PriorityCounts) Buckets() []LabelCount {
	out := []LabelCount{
		{Label: string(PriorityHigh), Count: p.High},
		{Label: string(PriorityMedium), Count: p.Medium},
		{Label: string(PriorityLow), Count: p.Low},
	}
	return append(out, p.Extra...)
}

// MarshalJSON writes the histogram as an object in display order.
func (p PriorityCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range p.Buckets() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AggregateStats is the derived summary of a Document.
type AggregateStats struct {
	TotalSignals     int            `json:"totalSignals"`
	TotalThemes      int            `json:"totalThemes"`
	TotalTranscripts int            `json:"totalTranscripts"`
	ThemeCounts      []ThemeCount   `json:"themeCounts"`
	PriorityCounts   PriorityCounts `json:"priorityCounts"`
}

// Count returns the signal count for theme and whether it is present.
func (s AggregateStats) Count(theme string) (int, bool) {
	for _, tc := range s.ThemeCounts {
		if tc.Theme == theme {
			return tc.Count, true
		}
	}
	return 0, false
}
