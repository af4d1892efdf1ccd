package deletion_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/registry/internal/deletion"
	"github.com/JaimeStill/registry/internal/history"
	"github.com/JaimeStill/registry/internal/metrics"
	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/status"
	"github.com/JaimeStill/registry/pkg/clock"
)

const (
	owner         = "TheRegistrar"
	pendingPeriod = 35 * 24 * time.Hour
)

var now = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func object(id string, kind registry.Kind, statuses ...status.Status) registry.Object {
	if len(statuses) == 0 {
		statuses = []status.Status{status.OK}
	}
	return registry.Object{
		ID:           id,
		Kind:         kind,
		Handle:       id,
		Names:        []string{id + ".example"},
		Statuses:     status.NewSet(statuses...),
		Sponsor:      owner,
		CreationTime: now.AddDate(-1, 0, 0),
	}
}

type recordingArchive struct {
	mu      sync.Mutex
	records []history.Record
	err     error
}

func (a *recordingArchive) Store(_ context.Context, rec history.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.records = append(a.records, rec)
	return nil
}

func (a *recordingArchive) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// hookedStore runs beforeApply ahead of each compare-and-apply, letting tests
// interleave a competing writer or inject store failures.
type hookedStore struct {
	*registry.Memory
	beforeApply func(call int) error
	calls       atomic.Int32
}

func (s *hookedStore) CompareAndApply(ctx context.Context, m registry.Mutation) error {
	call := int(s.calls.Add(1))
	if s.beforeApply != nil {
		if err := s.beforeApply(call); err != nil {
			return err
		}
	}
	return s.Memory.CompareAndApply(ctx, m)
}

type fixture struct {
	store   *hookedStore
	clock   *clock.Fake
	archive *recordingArchive
	metrics *metrics.Metrics
	flow    *deletion.Flow
}

func newFixture(t *testing.T, objs ...registry.Object) *fixture {
	t.Helper()
	f := &fixture{
		store:   &hookedStore{Memory: registry.NewMemory()},
		clock:   clock.NewFake(now),
		archive: &recordingArchive{},
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	for _, o := range objs {
		require.NoError(t, f.store.Save(context.Background(), o))
	}
	f.flow = deletion.New(
		f.store,
		f.clock,
		clock.NewIDSource(),
		deletion.DefaultPolicies(pendingPeriod),
		deletion.DefaultMaxRetries,
		f.archive,
		f.metrics,
		discard(),
	)
	return f
}

func (f *fixture) load(t *testing.T, id string) registry.Object {
	t.Helper()
	obj, err := f.store.Load(context.Background(), id)
	require.NoError(t, err)
	return obj
}
