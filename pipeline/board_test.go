package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalboard/aggregate"
	"signalboard/config"
	"signalboard/loader"
	"signalboard/models"
)

const export = `{
	"Billing": [{"billing-raw": [
		{"ask":"Invoice export","priority":"High","transcript_id":"t1"},
		{"ask":"Net-30 terms","transcript_id":"t2"}
	]}],
	"Search": [{"search-raw": [{"ask":"Fuzzy search","priority":"Low","transcript_id":"t1"}]}]
}`

type stubSource struct {
	body  string
	err   error
	calls atomic.Int32
}

func (s *stubSource) Load(context.Context) (*loader.Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	doc, err := models.ParseDocument([]byte(s.body))
	if err != nil {
		return nil, err
	}
	return &loader.Result{Source: "stub.json", Raw: []byte(s.body), Document: doc}, nil
}

type recordingIndex struct {
	loadIDs []string
	err     error
}

func (r *recordingIndex) Replace(_ context.Context, loadID string, _ *models.Document) error {
	r.loadIDs = append(r.loadIDs, loadID)
	return r.err
}

func newTestBoard(src Source, idx Indexer) *Board {
	b := NewBoard(src, idx, aggregate.PolicyOther, config.FullLayout)
	b.nowFunc = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestReload_Success(t *testing.T) {
	idx := &recordingIndex{}
	b := newTestBoard(&stubSource{body: export}, idx)

	snap, err := b.Reload(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "stub.json", snap.Source)
	assert.Equal(t, 3, snap.Stats.TotalSignals)
	assert.Equal(t, 2, snap.Stats.TotalThemes)
	assert.Equal(t, 2, snap.Stats.TotalTranscripts)
	require.NotNil(t, snap.Summary)
	require.Len(t, snap.Themes, 2)
	assert.Equal(t, "Billing", snap.Themes[0].Name)
	assert.NotNil(t, snap.Charts.Themes)

	assert.Same(t, snap, b.Snapshot())
	assert.NoError(t, b.Err())
	assert.Equal(t, []string{snap.ID}, idx.loadIDs)
	assert.Equal(t, 1, b.Charts().Generation())
}

func TestReload_Idempotent(t *testing.T) {
	b := newTestBoard(&stubSource{body: export}, nil)

	first, err := b.Reload(context.Background())
	require.NoError(t, err)
	second, err := b.Reload(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.Themes, second.Themes)
	assert.Equal(t, first.Charts, second.Charts)
	assert.Equal(t, 2, b.Charts().Generation())
}

func TestReload_NoData(t *testing.T) {
	b := newTestBoard(&stubSource{err: loader.ErrNoData}, nil)

	snap, err := b.Reload(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, loader.ErrNoData)
	assert.Nil(t, b.Snapshot())
	assert.ErrorIs(t, b.Err(), loader.ErrNoData)
	assert.Zero(t, b.Charts().Generation(), "no charts are drawn without data")
	assert.Equal(t, loader.RemediationMessage, FailureMessage(b.Err()))
}

func TestReload_FailureClearsPreviousSnapshot(t *testing.T) {
	src := &stubSource{body: export}
	b := newTestBoard(src, nil)
	_, err := b.Reload(context.Background())
	require.NoError(t, err)

	src.err = loader.ErrNoData
	_, err = b.Reload(context.Background())
	require.Error(t, err)
	assert.Nil(t, b.Snapshot())
	assert.Nil(t, b.Charts().Current().Themes)
}

func TestReload_AbortKeepsSnapshot(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"canceled", context.Canceled},
		{"deadline", fmt.Errorf("get http://example/x.json: %w", context.DeadlineExceeded)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{body: export}
			b := newTestBoard(src, nil)
			good, err := b.Reload(context.Background())
			require.NoError(t, err)

			src.err = tt.err
			_, err = b.Reload(context.Background())
			assert.ErrorIs(t, err, tt.err)

			assert.Same(t, good, b.Snapshot())
			assert.NoError(t, b.Err())
			assert.NotNil(t, b.Charts().Current().Themes)
			assert.Equal(t, 1, b.Charts().Generation())
		})
	}
}

func TestReload_CanceledContextKeepsSnapshot(t *testing.T) {
	src := &stubSource{body: export}
	b := newTestBoard(src, nil)
	good, err := b.Reload(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src.err = loader.ErrNoData
	_, err = b.Reload(ctx)
	require.Error(t, err)
	assert.Same(t, good, b.Snapshot())
	assert.NoError(t, b.Err())
}

// slowSource records how many loads overlap.
type slowSource struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *slowSource) Load(context.Context) (*loader.Result, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	doc, err := models.ParseDocument([]byte(export))
	if err != nil {
		return nil, err
	}
	return &loader.Result{Source: "slow.json", Document: doc}, nil
}

func TestReload_Serialized(t *testing.T) {
	src := &slowSource{}
	idx := &recordingIndex{}
	b := newTestBoard(src, idx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = b.Reload(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.peak.Load())
	require.Len(t, idx.loadIDs, 8)
	assert.Equal(t, idx.loadIDs[len(idx.loadIDs)-1], b.Snapshot().ID, "index and snapshot hold the same load")
}

func TestReload_IndexFailureKeepsSnapshot(t *testing.T) {
	b := newTestBoard(&stubSource{body: export}, &recordingIndex{err: errors.New("disk full")})

	snap, err := b.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, b.Snapshot())
}

func TestReload_DisabledRegions(t *testing.T) {
	b := NewBoard(&stubSource{body: export}, nil, aggregate.PolicyOther, config.Layout{})

	snap, err := b.Reload(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Summary)
	assert.Nil(t, snap.Themes)
	assert.Nil(t, snap.Charts.Themes)
	assert.Zero(t, b.Charts().Generation())

	p := b.Page(snap, "")
	assert.Nil(t, p.Charts)
	assert.False(t, p.Table)
}

func TestPage(t *testing.T) {
	b := newTestBoard(&stubSource{body: export}, nil)
	snap, err := b.Reload(context.Background())
	require.NoError(t, err)

	p := b.Page(snap, "")
	assert.Equal(t, "2025-03-01 12:00 UTC", p.GeneratedAt)
	assert.Equal(t, snap.ID, p.LoadID)
	require.NotNil(t, p.Charts)
	assert.True(t, p.Table)

	failed := b.Page(nil, "broken")
	assert.Equal(t, "broken", failed.Error)
	assert.Nil(t, failed.Summary)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, loader.RemediationMessage, FailureMessage(loader.ErrNoData))
	assert.Equal(t, loader.RemediationMessage, FailureMessage(models.ErrNotObject))
	assert.Equal(t, "Could not load signals: boom", FailureMessage(errors.New("boom")))
}
