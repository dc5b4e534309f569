package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (p *stubPruner) DeleteSummariesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cutoffs = append(p.cutoffs, cutoff)

	return 3, p.err
}

func TestPruneHistoryUsesRetention(t *testing.T) {
	pruner := &stubPruner{}
	s := New(context.Background(), pruner, 24*time.Hour, slog.Default())
	s.now = func() time.Time { return time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC) }

	s.pruneHistory()

	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC), pruner.cutoffs[0])
}

func TestPruneHistorySkipsWithoutRetention(t *testing.T) {
	pruner := &stubPruner{}
	s := New(context.Background(), pruner, 0, slog.Default())

	s.pruneHistory()

	assert.Empty(t, pruner.cutoffs)
}

func TestPruneHistorySkipsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pruner := &stubPruner{}
	s := New(ctx, pruner, time.Hour, slog.Default())

	s.pruneHistory()

	assert.Empty(t, pruner.cutoffs)
}

func TestPruneHistoryLogsErrors(t *testing.T) {
	pruner := &stubPruner{err: errors.New("database is locked")}
	s := New(context.Background(), pruner, time.Hour, slog.Default())

	assert.NotPanics(t, s.pruneHistory)
	assert.Len(t, pruner.cutoffs, 1)
}

func TestStartAndStop(t *testing.T) {
	s := New(context.Background(), &stubPruner{}, time.Hour, slog.Default())

	require.NoError(t, s.Start())
	s.Stop()
}
