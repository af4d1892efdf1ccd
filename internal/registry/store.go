package registry

import (
	"context"
	"net/netip"

	"github.com/google/uuid"
)

// Index exposes the store's secondary indexes. Results are ordered by ID and
// are not filtered by time; callers apply the visibility policy.
type Index interface {
	// ByNamePrefix matches canonical names of the given kind starting with
	// prefix. When suffix is non-empty the name must also end with those labels.
	ByNamePrefix(ctx context.Context, kind Kind, prefix string, suffix []string) ([]Ref, error)
	// ByHandlePrefix matches contact handles and registrar client IDs.
	ByHandlePrefix(ctx context.Context, prefix string) ([]Ref, error)
	// ByAddress returns every host owning addr, deduplicated.
	ByAddress(ctx context.Context, addr netip.Addr) ([]Ref, error)
	// ByDomainSuffix resolves a domain by exact name and returns its
	// subordinate hosts. Found is false when no domain carries the name.
	ByDomainSuffix(ctx context.Context, domain string) (SuffixResult, error)
}

// SuffixResult is the outcome of a subordinate-host lookup.
type SuffixResult struct {
	Found  bool
	Domain Object
	Hosts  []Ref
}

// Objects provides point-in-time fetch and atomic status mutation.
type Objects interface {
	Load(ctx context.Context, id string) (Object, error)
	Save(ctx context.Context, obj Object) error
	// CompareAndApply writes the mutation and records its attempt atomically.
	// It returns ErrConflict when the stored version moved on.
	CompareAndApply(ctx context.Context, m Mutation) error
	FindAttempt(ctx context.Context, id uuid.UUID) (Attempt, error)
}

// Registrars resolves sponsoring registrars.
type Registrars interface {
	FindRegistrar(ctx context.Context, clientID string) (Registrar, error)
	SaveRegistrar(ctx context.Context, r Registrar) error
}

// Store is the full contract the core consumes.
type Store interface {
	Index
	Objects
	Registrars
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
	_ Store = (*CachedRegistrars)(nil)
)
