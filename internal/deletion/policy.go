package deletion

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/status"
)

// Mode selects how a committed delete takes effect.
type Mode int

const (
	// Fast tombstones the object at commit time.
	Fast Mode = iota
	// Pending adds pendingDelete and tombstones the object once the pending
	// period elapses.
	Pending
)

func (m Mode) String() string {
	switch m {
	case Fast:
		return "fast"
	case Pending:
		return "pending"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode parses a configured mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "fast":
		return Fast, nil
	case "pending":
		return Pending, nil
	}
	return 0, fmt.Errorf("unknown delete mode %q", s)
}

// Extension is an opaque response payload attached to a successful delete.
type Extension struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Policy configures the delete flow for one object kind.
type Policy struct {
	Disallowed    status.Set
	SuccessCode   Code
	Extensions    []Extension
	Mode          Mode
	PendingPeriod time.Duration
}

// DefaultPolicy is a fast delete guarded by status.DeleteDisallowed.
func DefaultPolicy() Policy {
	return Policy{
		Disallowed:  status.DeleteDisallowed,
		SuccessCode: CodeSuccess,
		Mode:        Fast,
	}
}

// Policies maps object kinds to their delete policy.
type Policies map[registry.Kind]Policy

// DefaultPolicies returns pending deletes for domains and fast deletes for
// hosts and contacts.
func DefaultPolicies(pendingPeriod time.Duration) Policies {
	domain := DefaultPolicy()
	domain.Mode = Pending
	domain.SuccessCode = CodeSuccessPending
	domain.PendingPeriod = pendingPeriod

	return Policies{
		registry.KindDomain:  domain,
		registry.KindHost:    DefaultPolicy(),
		registry.KindContact: DefaultPolicy(),
	}
}

// For returns the policy for kind, falling back to DefaultPolicy.
func (p Policies) For(kind registry.Kind) Policy {
	if policy, ok := p[kind]; ok {
		return policy
	}
	return DefaultPolicy()
}

// WithModes returns a copy of p with the named kinds switched to the given
// modes. Pending modes use pendingPeriod and the pending success code.
func (p Policies) WithModes(modes map[string]string, pendingPeriod time.Duration) (Policies, error) {
	out := make(Policies, len(p)+len(modes))
	for kind, policy := range p {
		out[kind] = policy
	}
	for name, modeName := range modes {
		kind := registry.Kind(name)
		if !kind.Valid() {
			return nil, fmt.Errorf("no delete policy for kind %q", name)
		}
		mode, err := ParseMode(modeName)
		if err != nil {
			return nil, err
		}

		policy := out.For(kind)
		policy.Mode = mode
		switch mode {
		case Pending:
			policy.SuccessCode = CodeSuccessPending
			policy.PendingPeriod = pendingPeriod
		case Fast:
			policy.SuccessCode = CodeSuccess
			policy.PendingPeriod = 0
		}
		out[kind] = policy
	}
	return out, nil
}

// Allows reports whether the policy's guard permits deleting obj.
func (p Policy) Allows(obj registry.Object) bool {
	return status.IsOperationAllowed(obj.Statuses, p.Disallowed)
}

// apply returns the statuses and tombstone a committed delete writes at now.
func (p Policy) apply(obj registry.Object, now time.Time) (status.Set, time.Time) {
	if p.Mode == Pending {
		return obj.Statuses.Without(status.OK).With(status.PendingDelete), now.Add(p.PendingPeriod)
	}
	return obj.Statuses.Clone(), now
}
