package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"signalboard/models"
)

var (
	colorBold   = color.New(color.Bold)
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
)

// ColorPriority colors a priority label the way the dashboard does.
func ColorPriority(label string) string {
	switch label {
	case string(models.PriorityHigh):
		return colorRed.Sprint(label)
	case string(models.PriorityMedium):
		return colorYellow.Sprint(label)
	case string(models.PriorityLow):
		return colorGreen.Sprint(label)
	default:
		return label
	}
}

// column is one text table column; right-aligned columns pad on the left.
type column struct {
	header string
	right  bool
	color  func(string) string
}

type textTable struct {
	columns []column
	rows    [][]string
}

func (t *textTable) add(values ...string) {
	t.rows = append(t.rows, values)
}

func (t *textTable) write(w io.Writer) error {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = len(c.header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	cells := make([]string, len(t.columns))
	for i, c := range t.columns {
		cells[i] = colorBold.Sprint(pad(c.header, widths[i], c.right))
	}
	if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(cells, "  ")); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	for i, width := range widths {
		cells[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(cells, "  ")); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	for _, row := range t.rows {
		for i, c := range t.columns {
			// Pad before coloring so escape codes don't skew widths.
			cell := pad(row[i], widths[i], c.right)
			if c.color != nil {
				cell = strings.Replace(cell, row[i], c.color(row[i]), 1)
			}
			cells[i] = cell
		}
		if _, err := fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	return nil
}

func pad(s string, width int, right bool) string {
	if right {
		return fmt.Sprintf("%*s", width, s)
	}
	return fmt.Sprintf("%-*s", width, s)
}

// WriteText writes a terminal summary of stats: KPI cards, theme counts and
// the priority histogram.
func WriteText(w io.Writer, stats models.AggregateStats, source string) error {
	if _, err := fmt.Fprintf(w, "%s\n", colorBold.Sprint("HeadwayHQ Signals")); err != nil {
		return err
	}
	if source != "" {
		if _, err := fmt.Fprintf(w, "Source: %s\n", source); err != nil {
			return err
		}
	}
	for _, card := range Summary(stats).Cards {
		if _, err := fmt.Fprintf(w, "  %-14s %d\n", card.Label+":", card.Value); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", colorBold.Sprint("Signals by theme")); err != nil {
		return err
	}
	themes := &textTable{columns: []column{{header: "Theme"}, {header: "Signals", right: true}, {header: "Share", right: true}}}
	for _, tc := range stats.ThemeCounts {
		themes.add(tc.Theme, fmt.Sprintf("%d", tc.Count), share(tc.Count, stats.TotalSignals))
	}
	if err := themes.write(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", colorBold.Sprint("Priority")); err != nil {
		return err
	}
	prio := &textTable{columns: []column{{header: "Priority", color: ColorPriority}, {header: "Signals", right: true}}}
	for _, b := range stats.PriorityCounts.Buckets() {
		prio.add(b.Label, fmt.Sprintf("%d", b.Count))
	}
	return prio.write(w)
}

func share(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
