// Package search implements the public nameserver and entity searches.
//
// A search resolves its term, queries the store's indexes for candidates,
// loads them concurrently, drops everything not visible at the request's
// effective time, then orders and caps what remains.
package search

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/registry/internal/metrics"
	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/wildcard"
	"github.com/JaimeStill/registry/pkg/clock"
	"github.com/JaimeStill/registry/pkg/dnsname"
	"github.com/JaimeStill/registry/pkg/resultset"
)

const loadConcurrency = 8

// Request carries the parameters of one search. Nameserver searches read Name
// or Address; entity searches read Handle or FullName. Exactly one of the pair
// must be set. A zero Time means now; a zero MaxResults means the configured maximum.
type Request struct {
	Name       string
	Address    string
	Handle     string
	FullName   string
	Time       time.Time
	MaxResults int
}

// Candidate is a visible search hit. Registrar entities carry only Registrar;
// objects carry the object and its sponsoring registrar.
type Candidate struct {
	Ref       registry.Ref
	Handle    string
	Object    *registry.Object
	Registrar *registry.Registrar
}

// Engine runs searches against a store.
type Engine struct {
	store   registry.Store
	clock   clock.Clock
	limits  resultset.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Engine. A nil metrics value disables instrumentation.
func New(
	store registry.Store,
	clk clock.Clock,
	limits resultset.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		store:   store,
		clock:   clk,
		limits:  limits,
		metrics: m,
		logger:  logger.With("system", "search"),
	}
}

// Nameservers searches hosts by name (exact, prefix, or prefix under a
// domain suffix) or by IP address.
func (e *Engine) Nameservers(ctx context.Context, req Request) (result resultset.Result[Candidate], err error) {
	start := time.Now()
	defer func() { e.observe("nameservers", start, result, err) }()

	if (req.Name == "") == (req.Address == "") {
		return result, classified(BadRequest, msgNameserverParams)
	}

	at := e.effectiveTime(req)

	var (
		spec wildcard.MatchSpec
		refs []registry.Ref
	)
	if req.Address != "" {
		if spec, err = wildcard.Resolve(req.Address, wildcard.Address); err != nil {
			return result, fromResolver(err)
		}
		refs, err = e.store.ByAddress(ctx, spec.Address)
	} else {
		var term string
		if term, err = canonicalTerm(req.Name); err != nil {
			return result, err
		}
		if spec, err = wildcard.Resolve(term, wildcard.Name); err != nil {
			return result, fromResolver(err)
		}
		refs, err = e.nameRefs(ctx, spec, at)
	}
	if err != nil {
		return result, err
	}

	candidates, err := e.load(ctx, refs, at)
	if err != nil {
		return result, err
	}
	if req.Name != "" {
		candidates = slices.DeleteFunc(candidates, func(c Candidate) bool {
			return !slices.ContainsFunc(c.Object.Names, func(n string) bool { return matches(n, spec) })
		})
	}

	return e.finish(candidates, req, msgNoNameservers)
}

// Entities searches contacts and registrars by handle. Full-name search is
// not supported and always yields NotImplemented.
func (e *Engine) Entities(ctx context.Context, req Request) (result resultset.Result[Candidate], err error) {
	start := time.Now()
	defer func() { e.observe("entities", start, result, err) }()

	if (req.Handle == "") == (req.FullName == "") {
		return result, classified(BadRequest, msgEntityParams)
	}
	if req.FullName != "" {
		_, err := wildcard.Resolve(req.FullName, wildcard.EntityName)
		return result, fromResolver(err)
	}

	spec, err := wildcard.Resolve(req.Handle, wildcard.Handle)
	if err != nil {
		return result, fromResolver(err)
	}

	prefix := spec.Prefix
	if !spec.Wildcard {
		prefix = spec.Exact
	}
	refs, err := e.store.ByHandlePrefix(ctx, prefix)
	if err != nil {
		return result, err
	}

	at := e.effectiveTime(req)
	candidates, err := e.load(ctx, refs, at)
	if err != nil {
		return result, err
	}
	if !spec.Wildcard {
		candidates = slices.DeleteFunc(candidates, func(c Candidate) bool {
			return c.Handle != spec.Exact
		})
	}

	return e.finish(candidates, req, msgNoEntities)
}

// canonicalTerm folds a nameserver name term to canonical form. Exact names
// must be fully valid; a wildcard term's literal prefix must be able to begin
// one. Suffix labels are left to the wildcard resolver.
func canonicalTerm(name string) (string, error) {
	folded, err := dnsname.Fold(name)
	if err != nil {
		return "", classified(BadRequest, msgNotCanonical)
	}

	prefix, _, wild := strings.Cut(folded, "*")
	if wild {
		if !dnsname.ValidPrefix(prefix) {
			return "", classified(BadRequest, msgInvalidName)
		}
		return folded, nil
	}

	canonical, err := dnsname.Canonicalize(folded)
	switch {
	case errors.Is(err, dnsname.ErrNotCanonical):
		return "", classified(BadRequest, msgNotCanonical)
	case err != nil:
		return "", classified(BadRequest, msgInvalidName)
	}
	return canonical, nil
}

func (e *Engine) nameRefs(ctx context.Context, spec wildcard.MatchSpec, at time.Time) ([]registry.Ref, error) {
	switch {
	case !spec.Wildcard:
		return e.store.ByNamePrefix(ctx, registry.KindHost, spec.Exact, nil)
	case len(spec.Suffix) == 0:
		return e.store.ByNamePrefix(ctx, registry.KindHost, spec.Prefix, nil)
	}

	res, err := e.store.ByDomainSuffix(ctx, spec.SuffixDomain())
	if err != nil {
		return nil, err
	}
	if !res.Found || !registry.Exists(res.Domain, at) {
		return nil, classified(NotFound, msgNoSuffixDomain)
	}
	return res.Hosts, nil
}

// load resolves refs into candidates visible at t, preserving nothing about
// index order. Refs whose object vanished since indexing are skipped.
func (e *Engine) load(ctx context.Context, refs []registry.Ref, t time.Time) ([]Candidate, error) {
	sponsors := newSponsorMemo(e.store)
	slots := make([]*Candidate, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, ref := range refs {
		g.Go(func() error {
			c, err := e.candidate(gctx, ref, t, sponsors)
			if err != nil {
				return err
			}
			slots[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	candidates := make([]Candidate, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates, nil
}

func (e *Engine) candidate(ctx context.Context, ref registry.Ref, t time.Time, sponsors *sponsorMemo) (*Candidate, error) {
	if ref.Kind == registry.KindRegistrar {
		r, err := sponsors.find(ctx, ref.ID)
		if err != nil || r == nil || !r.Visible() {
			return nil, err
		}
		return &Candidate{Ref: ref, Handle: r.ClientID, Registrar: r}, nil
	}

	obj, err := e.store.Load(ctx, ref.ID)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sponsor, err := sponsors.find(ctx, obj.Sponsor)
	if err != nil {
		return nil, err
	}
	if !registry.IsVisible(obj, sponsor, t) {
		return nil, nil
	}
	return &Candidate{Ref: ref, Handle: obj.Handle, Object: &obj, Registrar: sponsor}, nil
}

func (e *Engine) finish(candidates []Candidate, req Request, empty string) (resultset.Result[Candidate], error) {
	if len(candidates) == 0 {
		return resultset.Result[Candidate]{}, classified(NotFound, empty)
	}

	slices.SortFunc(candidates, func(a, b Candidate) int {
		return cmp.Or(
			strings.Compare(a.Handle, b.Handle),
			strings.Compare(a.Ref.ID, b.Ref.ID),
		)
	})

	return resultset.Cap(candidates, e.limits.Normalize(req.MaxResults)), nil
}

func (e *Engine) effectiveTime(req Request) time.Time {
	if req.Time.IsZero() {
		return e.clock.Now()
	}
	return req.Time
}

func (e *Engine) observe(search string, start time.Time, result resultset.Result[Candidate], err error) {
	e.metrics.ObserveSearch(search, outcome(err), start)
	if result.Incomplete {
		e.metrics.IncrementTruncated(search)
	}
	if err != nil && outcome(err) == "error" {
		e.logger.Error("search failed", "search", search, "error", err)
	}
}

func matches(name string, spec wildcard.MatchSpec) bool {
	if !spec.Wildcard {
		return name == spec.Exact
	}
	return registry.MatchName(name, spec.Prefix, spec.Suffix)
}

// sponsorMemo resolves each registrar at most once per search. A missing
// registrar resolves to nil, which hides everything it sponsors.
type sponsorMemo struct {
	store registry.Registrars
	mu    sync.Mutex
	seen  map[string]*registry.Registrar
}

func newSponsorMemo(store registry.Registrars) *sponsorMemo {
	return &sponsorMemo{store: store, seen: make(map[string]*registry.Registrar)}
}

func (s *sponsorMemo) find(ctx context.Context, clientID string) (*registry.Registrar, error) {
	s.mu.Lock()
	r, ok := s.seen[clientID]
	s.mu.Unlock()
	if ok {
		return r, nil
	}

	found, err := s.store.FindRegistrar(ctx, clientID)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		r = nil
	case err != nil:
		return nil, err
	default:
		r = &found
	}

	s.mu.Lock()
	s.seen[clientID] = r
	s.mu.Unlock()
	return r, nil
}
