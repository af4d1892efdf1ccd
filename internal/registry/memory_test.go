package registry_test

import (
	"context"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/status"
)

func seeded(t *testing.T, objs ...registry.Object) *registry.Memory {
	t.Helper()
	m := registry.NewMemory()
	for _, o := range objs {
		require.NoError(t, m.Save(context.Background(), o))
	}
	return m
}

func TestMemoryLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := seeded(t, host("1-ROID", "ns1.cat.lol", "1.2.3.4"))

	got, err := m.Load(ctx, "1-ROID")
	require.NoError(t, err)
	got.Names[0] = "mutated"
	got.Statuses[status.Linked] = struct{}{}

	again, err := m.Load(ctx, "1-ROID")
	require.NoError(t, err)
	assert.Equal(t, "ns1.cat.lol", again.Name())
	assert.False(t, again.Statuses.Has(status.Linked))
}

func TestMemoryLoadMissing(t *testing.T) {
	_, err := registry.NewMemory().Load(context.Background(), "nope")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestMemorySaveRejectsDuplicateHandle(t *testing.T) {
	m := seeded(t, contact("1-ROID", "H1"))
	err := m.Save(context.Background(), contact("2-ROID", "H1"))
	assert.ErrorIs(t, err, registry.ErrDuplicate)
}

func TestMemoryCompareAndApply(t *testing.T) {
	ctx := context.Background()
	deleted := epoch.Add(time.Hour)

	t.Run("applies on matching version", func(t *testing.T) {
		m := seeded(t, contact("1-ROID", "H1"))
		attempt := registry.Attempt{ID: uuid.New(), ObjectID: "1-ROID", Code: 1000}

		err := m.CompareAndApply(ctx, registry.Mutation{
			ObjectID:        "1-ROID",
			ExpectedVersion: 0,
			Statuses:        status.NewSet(status.OK),
			DeletionTime:    &deleted,
			Attempt:         attempt,
		})
		require.NoError(t, err)

		got, err := m.Load(ctx, "1-ROID")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Version)
		require.NotNil(t, got.DeletionTime)
		assert.True(t, got.DeletionTime.Equal(deleted))

		recorded, err := m.FindAttempt(ctx, attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, 1000, recorded.Code)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		m := seeded(t, contact("1-ROID", "H1"))
		err := m.CompareAndApply(ctx, registry.Mutation{
			ObjectID:        "1-ROID",
			ExpectedVersion: 7,
			Attempt:         registry.Attempt{ID: uuid.New()},
		})
		assert.ErrorIs(t, err, registry.ErrConflict)

		got, _ := m.Load(ctx, "1-ROID")
		assert.Nil(t, got.DeletionTime)
	})

	t.Run("missing object", func(t *testing.T) {
		err := registry.NewMemory().CompareAndApply(ctx, registry.Mutation{ObjectID: "x"})
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})

	t.Run("concurrent writers commit once", func(t *testing.T) {
		m := seeded(t, contact("1-ROID", "H1"))

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for range 16 {
			wg.Go(func() {
				err := m.CompareAndApply(ctx, registry.Mutation{
					ObjectID:        "1-ROID",
					ExpectedVersion: 0,
					DeletionTime:    &deleted,
					Attempt:         registry.Attempt{ID: uuid.New()},
				})
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			})
		}
		wg.Wait()
		assert.Equal(t, 1, successes)
	})
}

func TestMemoryByNamePrefix(t *testing.T) {
	ctx := context.Background()
	m := seeded(t,
		host("3-ROID", "ns2.cat.lol"),
		host("1-ROID", "ns1.cat.lol"),
		host("2-ROID", "ns1.dog.lol"),
		domain("4-ROID", "ns1.cat.lol"),
	)

	refs, err := m.ByNamePrefix(ctx, registry.KindHost, "ns1", nil)
	require.NoError(t, err)
	assert.Equal(t, []registry.Ref{
		{Kind: registry.KindHost, ID: "1-ROID"},
		{Kind: registry.KindHost, ID: "2-ROID"},
	}, refs)

	refs, err = m.ByNamePrefix(ctx, registry.KindHost, "ns", []string{"cat", "lol"})
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	refs, err = m.ByNamePrefix(ctx, registry.KindHost, "zz", nil)
	require.NoError(t, err)
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestMemoryByHandlePrefixIncludesRegistrars(t *testing.T) {
	ctx := context.Background()
	m := seeded(t, contact("2-ROID", "2-ROID"), host("9-ROID", "ns1.cat.lol"))
	require.NoError(t, m.SaveRegistrar(ctx, activeRegistrar("2-Registrar")))

	refs, err := m.ByHandlePrefix(ctx, "2-R")
	require.NoError(t, err)
	assert.Equal(t, []registry.Ref{
		{Kind: registry.KindContact, ID: "2-ROID"},
		{Kind: registry.KindRegistrar, ID: "2-Registrar"},
	}, refs)
}

func TestMemoryByAddress(t *testing.T) {
	ctx := context.Background()
	m := seeded(t,
		host("1-ROID", "ns1.cat.lol", "1.2.3.4"),
		host("2-ROID", "ns2.cat.lol", "1.2.3.4", "bad:f00d:cafe::15:beef"),
		host("3-ROID", "ns3.cat.lol", "5.6.7.8"),
	)

	refs, err := m.ByAddress(ctx, netip.MustParseAddr("1.2.3.4"))
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	refs, err = m.ByAddress(ctx, netip.MustParseAddr("::ffff:1.2.3.4"))
	require.NoError(t, err)
	assert.Len(t, refs, 2, "ipv4-mapped addresses match their ipv4 form")

	refs, err = m.ByAddress(ctx, netip.MustParseAddr("bad:f00d:cafe::15:beef"))
	require.NoError(t, err)
	assert.Equal(t, []registry.Ref{{Kind: registry.KindHost, ID: "2-ROID"}}, refs)
}

func TestMemoryByDomainSuffix(t *testing.T) {
	ctx := context.Background()
	older := domain("5-ROID", "cat.lol")
	newer := domain("6-ROID", "cat.lol", "ns1.cat.lol", "ns2.cat.lol")
	newer.CreationTime = epoch.Add(time.Hour)

	m := seeded(t,
		older,
		newer,
		host("1-ROID", "ns1.cat.lol"),
		host("2-ROID", "ns2.cat.lol"),
		host("3-ROID", "ns3.cat.lol"),
	)

	res, err := m.ByDomainSuffix(ctx, "cat.lol")
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "6-ROID", res.Domain.ID)
	assert.Equal(t, []registry.Ref{
		{Kind: registry.KindHost, ID: "1-ROID"},
		{Kind: registry.KindHost, ID: "2-ROID"},
	}, res.Hosts)

	res, err = m.ByDomainSuffix(ctx, "nonexistent.tld")
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		suffix []string
		want   bool
	}{
		{"ns1.cat.lol", "ns", nil, true},
		{"ns1.cat.lol", "ns", []string{"cat", "lol"}, true},
		{"ns.cat.lol", "ns", []string{"cat", "lol"}, true},
		{"ns1.cat.lol", "ns", []string{"dog", "lol"}, false},
		{"ns1.cat.lol", "ns1.cat", []string{"cat", "lol"}, false},
		{"xns1.cat.lol", "ns", nil, false},
		{"cat.lol", "", []string{"lol"}, true},
	}

	for _, tt := range tests {
		got := registry.MatchName(tt.name, tt.prefix, tt.suffix)
		assert.Equal(t, tt.want, got, "MatchName(%q, %q, %v)", tt.name, tt.prefix, tt.suffix)
	}
}
