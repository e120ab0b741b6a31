// Package pipeline runs the load → aggregate → render flow and holds the
// current dashboard snapshot.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"signalboard/aggregate"
	"signalboard/config"
	"signalboard/loader"
	"signalboard/models"
	"signalboard/render"
)

// Source loads a signals export.
type Source interface {
	Load(ctx context.Context) (*loader.Result, error)
}

// Indexer receives every successfully loaded document.
type Indexer interface {
	Replace(ctx context.Context, loadID string, doc *models.Document) error
}

// Snapshot is the outcome of one successful pipeline run.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Source   string
	Document *models.Document
	Stats    models.AggregateStats
	Summary  *render.SummaryView
	Charts   render.ChartSet
	Themes   []render.ThemeBlock
}

// Board owns the current snapshot and the chart instances.
type Board struct {
	source  Source
	index   Indexer
	policy  aggregate.Policy
	layout  config.Layout
	charts  *render.Charts
	nowFunc func() time.Time

	// reloadMu serializes Reload so the index and the snapshot always
	// carry the same load.
	reloadMu sync.Mutex

	mu       sync.RWMutex
	snapshot *Snapshot
	err      error
}

// NewBoard wires a board. index may be nil.
func NewBoard(source Source, index Indexer, policy aggregate.Policy, layout config.Layout) *Board {
	return &Board{
		source:  source,
		index:   index,
		policy:  policy,
		layout:  layout,
		charts:  render.NewCharts(layout.Charts),
		nowFunc: time.Now,
	}
}

// Reload runs the full pipeline once. On a load failure the previous
// snapshot is dropped, the charts are destroyed and the error is kept for
// Err. A cancelled or expired ctx leaves the board untouched.
func (b *Board) Reload(ctx context.Context) (*Snapshot, error) {
	b.reloadMu.Lock()
	defer b.reloadMu.Unlock()

	res, err := b.source.Load(ctx)
	if err != nil {
		if aborted(ctx, err) {
			slog.Info("reload aborted", "error", err)
			return nil, err
		}
		b.mu.Lock()
		b.snapshot = nil
		b.err = err
		b.mu.Unlock()
		b.charts.Reset()
		slog.Warn("signals export unavailable", "error", err)
		return nil, err
	}

	snap := b.build(res)
	if b.index != nil {
		if err := b.index.Replace(ctx, snap.ID, snap.Document); err != nil {
			// The dashboard still works without the query index.
			slog.Error("failed to index signals", "load_id", snap.ID, "error", err)
		}
	}

	b.mu.Lock()
	b.snapshot = snap
	b.err = nil
	b.mu.Unlock()

	slog.Info("dashboard reloaded",
		"load_id", snap.ID,
		"signals", snap.Stats.TotalSignals,
		"themes", snap.Stats.TotalThemes,
		"transcripts", snap.Stats.TotalTranscripts,
	)
	return snap, nil
}

func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (b *Board) build(res *loader.Result) *Snapshot {
	stats := aggregate.Aggregate(res.Document, b.policy)
	snap := &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: b.nowFunc().UTC(),
		Source:   res.Source,
		Document: res.Document,
		Stats:    stats,
		Charts:   b.charts.Render(stats),
	}
	if b.layout.Summary {
		snap.Summary = render.Summary(stats)
	}
	if b.layout.Table {
		snap.Themes = render.ThemeTable(res.Document, stats)
	}
	return snap
}

// Snapshot returns the current snapshot, or nil when none is loaded.
func (b *Board) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}

// Err returns the last load failure, or nil after a successful load.
func (b *Board) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Layout returns the enabled regions.
func (b *Board) Layout() config.Layout {
	return b.layout
}

// Charts returns the chart owner.
func (b *Board) Charts() *render.Charts {
	return b.charts
}

// Page builds the template data for snap, or the failure page when snap is nil.
func (b *Board) Page(snap *Snapshot, errMsg string) render.Page {
	if snap == nil {
		return render.Page{Title: render.DefaultTitle, Error: errMsg}
	}
	p := render.Page{
		GeneratedAt: snap.LoadedAt.Format("2006-01-02 15:04 UTC"),
		Source:      snap.Source,
		Title:       render.DefaultTitle,
		LoadID:      snap.ID,
		Issues:      len(snap.Document.Issues),
		Summary:     snap.Summary,
		Themes:      snap.Themes,
		Table:       b.layout.Table,
	}
	if b.layout.Charts {
		charts := snap.Charts
		p.Charts = &charts
	}
	return p
}

// FailureMessage is the text shown in place of the dashboard when the last
// load failed.
func FailureMessage(err error) string {
	if err == nil || loader.IsTerminal(err) {
		return loader.RemediationMessage
	}
	return "Could not load signals: " + err.Error()
}
