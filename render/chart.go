package render

import (
	"fmt"
	"log/slog"
	"sync"

	"signalboard/models"
)

// Chart mount points.
const (
	ThemeChartID    = "chart-themes"
	PriorityChartID = "chart-priority"
)

// Fixed priority colors; anything else is drawn in DefaultColor.
var (
	PriorityColors = map[string]string{
		string(models.PriorityHigh):   "#dc3545",
		string(models.PriorityMedium): "#ffc107",
		string(models.PriorityLow):    "#28a745",
	}
	DefaultColor = "#6c757d"
)

// Chart is a drawable chart specification.
type Chart struct {
	ID     string   `json:"id"`
	Kind   string   `json:"kind"` // "bar" or "donut"
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Colors []string `json:"colors"`
}

// Empty reports whether the chart has nothing to draw.
func (c *Chart) Empty() bool {
	return c == nil || len(c.Values) == 0
}

// ThemeColor returns the bar color for the i-th theme.
func ThemeColor(i int) string {
	return fmt.Sprintf("hsl(%d, 70%%, 55%%)", (220+25*i)%360)
}

// ThemeBarChart draws one horizontal bar per theme, largest first.
func ThemeBarChart(stats models.AggregateStats) *Chart {
	c := &Chart{ID: ThemeChartID, Kind: "bar"}
	for i, tc := range stats.ThemeCounts {
		c.Labels = append(c.Labels, tc.Theme)
		c.Values = append(c.Values, tc.Count)
		c.Colors = append(c.Colors, ThemeColor(i))
	}
	return c
}

// PriorityDonut draws the priority histogram. Zero-count buckets are left out.
func PriorityDonut(stats models.AggregateStats) *Chart {
	c := &Chart{ID: PriorityChartID, Kind: "donut"}
	for _, b := range stats.PriorityCounts.Buckets() {
		if b.Count == 0 {
			continue
		}
		color, ok := PriorityColors[b.Label]
		if !ok {
			color = DefaultColor
		}
		c.Labels = append(c.Labels, b.Label)
		c.Values = append(c.Values, b.Count)
		c.Colors = append(c.Colors, color)
	}
	return c
}

// ChartSet is the pair of dashboard charts. A nil member is not drawn.
type ChartSet struct {
	Themes   *Chart `json:"themes,omitempty"`
	Priority *Chart `json:"priority,omitempty"`
}

// Charts owns the live chart instances. Render replaces them; nothing else
// writes to them.
type Charts struct {
	mu         sync.Mutex
	enabled    bool
	current    ChartSet
	generation int
}

// NewCharts returns an owner that draws only when enabled.
func NewCharts(enabled bool) *Charts {
	return &Charts{enabled: enabled}
}

// Render destroys the previous charts and builds new ones from stats.
// It is a no-op when the chart region is disabled.
func (c *Charts) Render(stats models.AggregateStats) ChartSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return ChartSet{}
	}
	c.destroy()
	c.current = ChartSet{
		Themes:   ThemeBarChart(stats),
		Priority: PriorityDonut(stats),
	}
	c.generation++
	return c.current
}

// Current returns the live charts.
func (c *Charts) Current() ChartSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Generation counts how many times the charts were rebuilt.
func (c *Charts) Generation() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Reset destroys the live charts without drawing new ones.
func (c *Charts) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroy()
}

func (c *Charts) destroy() {
	if c.current.Themes == nil && c.current.Priority == nil {
		return
	}
	slog.Debug("charts destroyed", "generation", c.generation)
	c.current = ChartSet{}
}
