package search_test

import (
	"context"
	"io"
	"log/slog"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/search"
	"github.com/JaimeStill/registry/internal/status"
	"github.com/JaimeStill/registry/pkg/clock"
	"github.com/JaimeStill/registry/pkg/resultset"
)

var now = time.Date(2009, 6, 29, 20, 13, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func iana(n int64) *int64 { return &n }

func registrar(clientID string, state registry.RegistrarState, typ registry.RegistrarType) registry.Registrar {
	r := registry.Registrar{
		ClientID: clientID,
		Name:     clientID + " Name",
		State:    state,
		Type:     typ,
	}
	if typ != registry.RegistrarTest {
		r.IANAIdentifier = iana(101)
	}
	return r
}

func hostObject(id, name, sponsor string, addrs ...string) registry.Object {
	o := registry.Object{
		ID:           id,
		Kind:         registry.KindHost,
		Handle:       id,
		Names:        []string{name},
		Statuses:     status.NewSet(status.OK),
		Sponsor:      sponsor,
		CreationTime: now.AddDate(-1, 0, 0),
	}
	for _, a := range addrs {
		o.Addresses = append(o.Addresses, netip.MustParseAddr(a))
	}
	return o
}

func contactObject(id, sponsor string) registry.Object {
	return registry.Object{
		ID:           id,
		Kind:         registry.KindContact,
		Handle:       id,
		Statuses:     status.NewSet(status.OK),
		Sponsor:      sponsor,
		CreationTime: now.AddDate(-1, 0, 0),
	}
}

type fixture struct {
	store  *registry.Memory
	clock  *clock.Fake
	engine *search.Engine
}

func newFixture(t *testing.T, maxSize int) *fixture {
	t.Helper()
	f := &fixture{
		store: registry.NewMemory(),
		clock: clock.NewFake(now),
	}
	f.engine = search.New(f.store, f.clock, resultset.Config{MaxSize: maxSize}, nil, discard())
	return f
}

func (f *fixture) registrar(t *testing.T, r registry.Registrar) {
	t.Helper()
	require.NoError(t, f.store.SaveRegistrar(context.Background(), r))
}

func (f *fixture) save(t *testing.T, objs ...registry.Object) {
	t.Helper()
	for _, o := range objs {
		require.NoError(t, f.store.Save(context.Background(), o))
	}
}

func (f *fixture) tombstone(t *testing.T, id string, at time.Time) {
	t.Helper()
	obj, err := f.store.Load(context.Background(), id)
	require.NoError(t, err)
	obj.DeletionTime = &at
	require.NoError(t, f.store.Save(context.Background(), obj))
}

// nameserverFixture seeds the hosts of the cat.lol scenario.
func nameserverFixture(t *testing.T, maxSize int) *fixture {
	f := newFixture(t, maxSize)
	f.registrar(t, registrar("TheRegistrar", registry.RegistrarActive, registry.RegistrarReal))
	f.registrar(t, registrar("unicoderegistrar", registry.RegistrarActive, registry.RegistrarReal))

	catLol := registry.Object{
		ID:               "6-ROID",
		Kind:             registry.KindDomain,
		Handle:           "6-ROID",
		Names:            []string{"cat.lol"},
		Statuses:         status.NewSet(status.OK),
		SubordinateHosts: []string{"ns1.cat.lol", "ns2.cat.lol"},
		Sponsor:          "TheRegistrar",
		CreationTime:     now.AddDate(-1, 0, 0),
	}

	f.save(t,
		hostObject("2-ROID", "ns1.cat.lol", "TheRegistrar", "1.2.3.4"),
		hostObject("3-ROID", "ns2.cat.lol", "TheRegistrar", "bad:f00d:cafe::15:beef"),
		hostObject("4-ROID", "ns1.cat2.lol", "TheRegistrar", "1.2.3.3", "bad:f00d:cafe::15:beef"),
		hostObject("5-ROID", "ns1.cat.external", "TheRegistrar"),
		hostObject("7-ROID", "ns1.cat.xn--q9jyb4c", "unicoderegistrar", "1.2.3.5"),
		hostObject("9-ROID", "ns1.cat.1.test", "TheRegistrar", "1.2.3.6"),
		catLol,
	)
	return f
}

// entityFixture seeds contacts and registrars for handle searches.
func entityFixture(t *testing.T, maxSize int) *fixture {
	f := newFixture(t, maxSize)
	f.registrar(t, registrar("TheRegistrar", registry.RegistrarActive, registry.RegistrarReal))
	f.registrar(t, registrar("2-Registrar", registry.RegistrarActive, registry.RegistrarReal))
	f.registrar(t, registrar("2-RegistrarInact", registry.RegistrarPending, registry.RegistrarReal))
	f.registrar(t, registrar("2-RegistrarTest", registry.RegistrarActive, registry.RegistrarTest))

	deleted := contactObject("6-ROID", "TheRegistrar")
	gone := now.AddDate(0, 0, -1)
	deleted.DeletionTime = &gone

	f.save(t, contactObject("2-ROID", "TheRegistrar"), deleted)
	return f
}

func handles(r resultset.Result[search.Candidate]) []string {
	out := make([]string, len(r.Data))
	for i, c := range r.Data {
		out[i] = c.Handle
	}
	return out
}
