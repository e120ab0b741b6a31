// Package aggregate reduces a parsed signals export to dashboard statistics.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"signalboard/models"
)

// Policy decides how a priority label outside High/Medium/Low is counted.
type Policy string

const (
	// PolicyOther counts every unrecognized label under one "Other" bucket.
	PolicyOther Policy = "other"
	// PolicyKeep keys the histogram on the exact trimmed label, so "high"
	// and "High" are separate buckets. Only a blank label counts as Medium.
	PolicyKeep Policy = "keep"
	// PolicyCoerce counts unrecognized labels as Medium.
	PolicyCoerce Policy = "coerce"
	// PolicyDrop leaves unrecognized labels out of the histogram.
	PolicyDrop Policy = "drop"
)

// ParsePolicy validates a configured policy name. Empty means PolicyOther.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyOther, nil
	case PolicyOther, PolicyKeep, PolicyCoerce, PolicyDrop:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority policy %q (want other, keep, coerce or drop)", s)
	}
}

// Aggregate computes AggregateStats in a single pass over doc.
func Aggregate(doc *models.Document, policy Policy) models.AggregateStats {
	stats := models.AggregateStats{ThemeCounts: []models.ThemeCount{}}
	if doc == nil {
		return stats
	}

	transcripts := make(map[string]struct{})
	for _, theme := range doc.Themes {
		count := 0
		for _, group := range theme.Groups {
			count += group.Count
			for _, sig := range group.Signals {
				if label, ok := bucket(sig, policy); ok {
					stats.PriorityCounts.Add(label)
				}
				if sig.TranscriptID != "" {
					transcripts[sig.TranscriptID] = struct{}{}
				}
			}
		}
		stats.ThemeCounts = append(stats.ThemeCounts, models.ThemeCount{Theme: theme.Name, Count: count})
		stats.TotalSignals += count
	}

	sort.SliceStable(stats.ThemeCounts, func(i, j int) bool {
		return stats.ThemeCounts[i].Count > stats.ThemeCounts[j].Count
	})

	stats.TotalThemes = len(stats.ThemeCounts)
	stats.TotalTranscripts = len(transcripts)
	return stats
}

func bucket(sig models.Signal, policy Policy) (string, bool) {
	if policy == PolicyKeep && sig.PriorityLabel != "" {
		return sig.PriorityLabel, true
	}
	if sig.Priority != models.PriorityOther {
		return sig.Label(), true
	}
	switch policy {
	case PolicyKeep:
		return sig.Label(), true
	case PolicyCoerce:
		return string(models.PriorityMedium), true
	case PolicyDrop:
		return "", false
	default:
		return string(models.PriorityOther), true
	}
}

// ThemeTotals recomputes per-theme totals straight from the raw groups.
func ThemeTotals(doc *models.Document) map[string]int {
	totals := make(map[string]int, len(doc.Themes))
	for _, theme := range doc.Themes {
		totals[theme.Name] = theme.Total()
	}
	return totals
}
