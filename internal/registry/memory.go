package registry

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It serializes writers behind a mutex, which
// gives CompareAndApply the same isolation the PostgreSQL store gets from its
// conditional update.
type Memory struct {
	mu         sync.RWMutex
	objects    map[string]Object
	registrars map[string]Registrar
	attempts   map[uuid.UUID]Attempt
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		objects:    make(map[string]Object),
		registrars: make(map[string]Registrar),
		attempts:   make(map[uuid.UUID]Attempt),
	}
}

func (m *Memory) Load(_ context.Context, id string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[id]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj.Clone(), nil
}

func (m *Memory) Save(_ context.Context, obj Object) error {
	if obj.ID == "" {
		return fmt.Errorf("save object: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.objects {
		if id != obj.ID && existing.Handle == obj.Handle {
			return ErrDuplicate
		}
	}
	m.objects[obj.ID] = obj.Clone()
	return nil
}

func (m *Memory) CompareAndApply(_ context.Context, mut Mutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.objects[mut.ObjectID]
	if !ok {
		return ErrNotFound
	}
	if obj.Version != mut.ExpectedVersion {
		return ErrConflict
	}
	if _, dup := m.attempts[mut.Attempt.ID]; dup {
		return ErrDuplicate
	}

	obj.Statuses = mut.Statuses.Clone()
	if mut.DeletionTime != nil {
		t := *mut.DeletionTime
		obj.DeletionTime = &t
	} else {
		obj.DeletionTime = nil
	}
	obj.Version++
	m.objects[obj.ID] = obj
	m.attempts[mut.Attempt.ID] = mut.Attempt
	return nil
}

func (m *Memory) FindAttempt(_ context.Context, id uuid.UUID) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	return a, nil
}

func (m *Memory) FindRegistrar(_ context.Context, clientID string) (Registrar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.registrars[clientID]
	if !ok {
		return Registrar{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) SaveRegistrar(_ context.Context, r Registrar) error {
	if r.ClientID == "" {
		return fmt.Errorf("save registrar: empty client id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrars[r.ClientID] = r
	return nil
}

func (m *Memory) ByNamePrefix(_ context.Context, kind Kind, prefix string, suffix []string) ([]Ref, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var refs []Ref
	for _, obj := range m.objects {
		if obj.Kind != kind {
			continue
		}
		if slices.ContainsFunc(obj.Names, func(n string) bool {
			return MatchName(n, prefix, suffix)
		}) {
			refs = append(refs, obj.Ref())
		}
	}
	return sortRefs(refs), nil
}

func (m *Memory) ByHandlePrefix(_ context.Context, prefix string) ([]Ref, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var refs []Ref
	for _, obj := range m.objects {
		if obj.Kind == KindContact && strings.HasPrefix(obj.Handle, prefix) {
			refs = append(refs, obj.Ref())
		}
	}
	for _, r := range m.registrars {
		if strings.HasPrefix(r.ClientID, prefix) {
			refs = append(refs, r.Ref())
		}
	}
	return sortRefs(refs), nil
}

func (m *Memory) ByAddress(_ context.Context, addr netip.Addr) ([]Ref, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var refs []Ref
	for _, obj := range m.objects {
		if obj.Kind == KindHost && obj.HasAddress(addr) {
			refs = append(refs, obj.Ref())
		}
	}
	return sortRefs(refs), nil
}

func (m *Memory) ByDomainSuffix(_ context.Context, domain string) (SuffixResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		found  bool
		latest Object
	)
	for _, obj := range m.objects {
		if obj.Kind != KindDomain || !obj.HasName(domain) {
			continue
		}
		if !found || newer(obj, latest) {
			latest = obj
			found = true
		}
	}
	if !found {
		return SuffixResult{}, nil
	}

	var refs []Ref
	for _, obj := range m.objects {
		if obj.Kind != KindHost {
			continue
		}
		if slices.ContainsFunc(latest.SubordinateHosts, obj.HasName) {
			refs = append(refs, obj.Ref())
		}
	}
	return SuffixResult{Found: true, Domain: latest.Clone(), Hosts: sortRefs(refs)}, nil
}

// MatchName reports whether a canonical name starts with prefix and, when
// suffix labels are given, ends with them with at least one character between.
func MatchName(name, prefix string, suffix []string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	if len(suffix) == 0 {
		return true
	}
	tail := "." + strings.Join(suffix, ".")
	return len(name) >= len(prefix)+len(tail) && strings.HasSuffix(name, tail)
}

func newer(a, b Object) bool {
	if !a.CreationTime.Equal(b.CreationTime) {
		return a.CreationTime.After(b.CreationTime)
	}
	return a.ID > b.ID
}

func sortRefs(refs []Ref) []Ref {
	if refs == nil {
		return []Ref{}
	}
	slices.SortFunc(refs, func(a, b Ref) int {
		if c := strings.Compare(a.ID, b.ID); c != 0 {
			return c
		}
		return strings.Compare(string(a.Kind), string(b.Kind))
	})
	return refs
}
