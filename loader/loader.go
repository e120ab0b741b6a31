// Package loader fetches the themed-signal export from an ordered list of
// candidate locations.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"signalboard/config"
	"signalboard/models"
)

// ErrNoData is returned when no candidate yields a JSON body.
var ErrNoData = errors.New("no signals export could be loaded")

// RemediationMessage is shown verbatim whenever the export cannot be loaded.
const RemediationMessage = "Could not load signals_by_theme.json. Regenerate it by running " +
	"`python scripts/group_signals_by_theme.py --input signals/signals.json --output docs/data/signals_by_theme.json` " +
	"from the repository root (requires signals/signals.json from the extraction step), then reload this page."

// IsTerminal reports whether err is a total data unavailability failure.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrNoData) || errors.Is(err, models.ErrNotObject)
}

// Result is a successfully loaded export.
type Result struct {
	Source   string
	Raw      []byte
	Document *models.Document
}

// Loader tries each candidate in order and returns the first that parses.
type Loader struct {
	Candidates []string
	Client     *http.Client
	// Concurrent probes every candidate at once; the lowest-index success
	// still wins.
	Concurrent bool

	readFile func(string) ([]byte, error)
}

// New builds a Loader from configuration.
func New(cfg *config.Config) *Loader {
	return &Loader{
		Candidates: append([]string(nil), cfg.Data...),
		Client:     &http.Client{Timeout: cfg.FetchTimeout},
		Concurrent: cfg.Probe == config.ProbeConcurrent,
	}
}

// Load returns the first candidate whose body is valid JSON. A first valid
// body that is not an object fails with models.ErrNotObject; exhausting the
// candidates fails with ErrNoData.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	if l.Concurrent {
		return l.loadConcurrent(ctx)
	}
	for _, c := range l.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := l.try(ctx, c)
		if err != nil {
			slog.Debug("candidate skipped", "candidate", c, "error", err)
			continue
		}
		return l.finish(res)
	}
	// A fetch cut short by cancellation is not a missing export.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoData
}

func (l *Loader) loadConcurrent(ctx context.Context) (*Result, error) {
	results := make([]*Result, len(l.Candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range l.Candidates {
		i, c := i, c
		g.Go(func() error {
			res, err := l.try(gctx, c)
			if err != nil {
				slog.Debug("candidate skipped", "candidate", c, "error", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, res := range results {
		if res != nil {
			return l.finish(res)
		}
	}
	return nil, ErrNoData
}

// try fetches and parses one candidate. Any error means "advance".
func (l *Loader) try(ctx context.Context, candidate string) (*Result, error) {
	start := time.Now()
	raw, err := l.fetch(ctx, candidate)
	if err != nil {
		return nil, err
	}
	doc, err := models.ParseDocument(raw)
	if errors.Is(err, models.ErrInvalidJSON) {
		return nil, err
	}
	slog.Debug("candidate fetched", "candidate", candidate, "bytes", len(raw), "elapsed", time.Since(start))
	// A JSON body that is not an object is still the winning candidate.
	return &Result{Source: candidate, Raw: raw, Document: doc}, nil
}

func (l *Loader) finish(res *Result) (*Result, error) {
	if res.Document == nil {
		return nil, fmt.Errorf("%s: %w", res.Source, models.ErrNotObject)
	}
	slog.Info("signals export loaded",
		"source", res.Source,
		"themes", len(res.Document.Themes),
		"issues", len(res.Document.Issues),
	)
	return res, nil
}

func (l *Loader) fetch(ctx context.Context, candidate string) ([]byte, error) {
	if isURL(candidate) {
		return l.fetchHTTP(ctx, candidate)
	}
	read := l.readFile
	if read == nil {
		read = os.ReadFile
	}
	return read(candidate)
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
