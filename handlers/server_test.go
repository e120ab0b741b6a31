package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalboard/aggregate"
	"signalboard/config"
	"signalboard/database"
	"signalboard/loader"
	"signalboard/models"
	"signalboard/pipeline"
)

const export = `{
	"Billing": [{"billing-raw": [
		{"ask":"Invoice export","priority":"High","transcript_id":"t1","evidence":"manual CSV"},
		{"ask":"Net-30 terms","transcript_id":"t2"}
	]}],
	"Search": [{"search-raw": [{"ask":"Fuzzy search","priority":"Low","transcript_id":"t1"}, null]}, "junk"]
}`

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	srv   *Server
	board *pipeline.Board
	path  string
}

func newFixture(t *testing.T, body string) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signals_by_theme.json")
	if body != "" {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	idx, err := database.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	board := pipeline.NewBoard(&loader.Loader{Candidates: []string{path}}, idx, aggregate.PolicyOther, config.FullLayout)
	_, _ = board.Reload(context.Background())

	return &fixture{srv: NewServer(board, idx), board: board, path: path}
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRootRedirects(t *testing.T) {
	f := newFixture(t, export)
	rec := f.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, export)
	rec := f.do(http.MethodGet, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<title>HeadwayHQ Signals</title>")
	assert.Contains(t, body, `id="summary-cards"`)
	assert.Contains(t, body, `id="chart-themes"`)
	assert.Contains(t, body, `data-theme="Billing"`)
	assert.Contains(t, body, "Invoice export")
	assert.NotContains(t, body, `id="error-message"`)
}

func TestDashboard_NoData(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(http.MethodGet, "/dashboard")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="error-message"`)
	assert.Contains(t, body, "group_signals_by_theme.py")
	assert.NotContains(t, body, `id="summary-cards"`)
	assert.NotContains(t, body, `id="chart-themes"`)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t, export)
	rec := f.do(http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalSignals     int                 `json:"totalSignals"`
		TotalThemes      int                 `json:"totalThemes"`
		TotalTranscripts int                 `json:"totalTranscripts"`
		ThemeCounts      []models.ThemeCount `json:"themeCounts"`
		PriorityCounts   map[string]int      `json:"priorityCounts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.TotalSignals)
	assert.Equal(t, 2, stats.TotalThemes)
	assert.Equal(t, 2, stats.TotalTranscripts)
	assert.Equal(t, []models.ThemeCount{{Theme: "Billing", Count: 2}, {Theme: "Search", Count: 2}}, stats.ThemeCounts)
	assert.Equal(t, map[string]int{"High": 1, "Medium": 1, "Low": 1}, stats.PriorityCounts)
}

func TestGetStats_NoData(t *testing.T) {
	f := newFixture(t, "")
	rec := f.do(http.MethodGet, "/api/stats")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "signals/signals.json")
}

func TestGetThemes(t *testing.T) {
	f := newFixture(t, export)

	rec := f.do(http.MethodGet, "/api/themes")
	require.Equal(t, http.StatusOK, rec.Code)
	var themes []themeSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &themes))
	require.Len(t, themes, 2)
	assert.Equal(t, "Billing", themes[0].Name)
	assert.Equal(t, []groupSummary{{Label: "billing-raw", Count: 2}}, themes[0].Groups)

	rec = f.do(http.MethodGet, "/api/themes?theme=Search")
	require.Equal(t, http.StatusOK, rec.Code)
	var theme models.Theme
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &theme))
	assert.Equal(t, "Search", theme.Name)
	assert.Len(t, theme.Groups[0].Signals, 1)

	rec = f.do(http.MethodGet, "/api/themes?theme=Nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSignals(t *testing.T) {
	f := newFixture(t, export)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Invoice export", "Net-30 terms", "Fuzzy search"}},
		{"theme", "?theme=Search", []string{"Fuzzy search"}},
		{"priority", "?priority=medium", []string{"Net-30 terms"}},
		{"transcript", "?transcript_id=t1", []string{"Invoice export", "Fuzzy search"}},
		{"search evidence", "?q=csv", []string{"Invoice export"}},
		{"limit", "?limit=1", []string{"Invoice export"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, "/api/signals"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)
			var rows []models.SignalRow
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
			var asks []string
			for _, r := range rows {
				asks = append(asks, r.Ask)
			}
			assert.Equal(t, tt.want, asks)
		})
	}

	rec := f.do(http.MethodGet, "/api/signals?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/signals?theme=Nope")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetSignals_NoIndex(t *testing.T) {
	f := newFixture(t, export)
	srv := NewServer(f.board, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signals", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetIssues(t *testing.T) {
	f := newFixture(t, export)
	rec := f.do(http.MethodGet, "/api/issues")
	require.Equal(t, http.StatusOK, rec.Code)

	var issues []models.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issues))
	assert.Equal(t, []models.Issue{
		{Path: "Search[0].search-raw[1]", Reason: "signal is null, not an object"},
		{Path: "Search[1]", Reason: "raw group is a string, not an object"},
	}, issues)
}

func TestReload(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/healthz").Code)

	require.NoError(t, os.WriteFile(f.path, []byte(export), 0o600))
	rec := f.do(http.MethodPost, "/api/reload")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		LoadID string `json:"load_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, f.board.Snapshot().ID, body.LoadID)

	health := f.do(http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"indexed":3`)

	require.NoError(t, os.Remove(f.path))
	rec = f.do(http.MethodPost, "/api/reload")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/dashboard").Code)
}

func TestReload_AbortedRequestKeepsDashboard(t *testing.T) {
	f := newFixture(t, export)
	loadID := f.board.Snapshot().ID

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil).WithContext(ctx)
	f.srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, f.board.Snapshot())
	assert.Equal(t, loadID, f.board.Snapshot().ID)
	assert.NoError(t, f.board.Err())

	rec := f.do(http.MethodGet, "/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invoice export")
}
