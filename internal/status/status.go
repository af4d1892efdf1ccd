// Package status defines registry status flags and the guard that decides
// whether an operation is legal for an object carrying a given flag set.
package status

import (
	"slices"
	"strings"
)

// Status is an enumerated marker on a registry object.
type Status string

const (
	ClientDeleteProhibited   Status = "clientDeleteProhibited"
	ClientHold               Status = "clientHold"
	ClientRenewProhibited    Status = "clientRenewProhibited"
	ClientTransferProhibited Status = "clientTransferProhibited"
	ClientUpdateProhibited   Status = "clientUpdateProhibited"
	Inactive                 Status = "inactive"
	Linked                   Status = "linked"
	OK                       Status = "ok"
	PendingCreate            Status = "pendingCreate"
	PendingDelete            Status = "pendingDelete"
	PendingTransfer          Status = "pendingTransfer"
	PendingUpdate            Status = "pendingUpdate"
	ServerDeleteProhibited   Status = "serverDeleteProhibited"
	ServerHold               Status = "serverHold"
	ServerRenewProhibited    Status = "serverRenewProhibited"
	ServerTransferProhibited Status = "serverTransferProhibited"
	ServerUpdateProhibited   Status = "serverUpdateProhibited"
)

// All lists every known status in declaration order.
var All = []Status{
	ClientDeleteProhibited,
	ClientHold,
	ClientRenewProhibited,
	ClientTransferProhibited,
	ClientUpdateProhibited,
	Inactive,
	Linked,
	OK,
	PendingCreate,
	PendingDelete,
	PendingTransfer,
	PendingUpdate,
	ServerDeleteProhibited,
	ServerHold,
	ServerRenewProhibited,
	ServerTransferProhibited,
	ServerUpdateProhibited,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return slices.Contains(All, s)
}

// Set is an unordered collection of statuses.
type Set map[Status]struct{}

// NewSet builds a Set from the given statuses.
func NewSet(statuses ...Status) Set {
	s := make(Set, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}
	return s
}

// Has reports whether st is in the set.
func (s Set) Has(st Status) bool {
	_, ok := s[st]
	return ok
}

// With returns a copy of the set including the given statuses.
func (s Set) With(statuses ...Status) Set {
	out := s.Clone()
	for _, st := range statuses {
		out[st] = struct{}{}
	}
	return out
}

// Without returns a copy of the set excluding the given statuses.
func (s Set) Without(statuses ...Status) Set {
	out := s.Clone()
	for _, st := range statuses {
		delete(out, st)
	}
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for st := range s {
		out[st] = struct{}{}
	}
	return out
}

// Sorted returns the statuses in lexical order.
func (s Set) Sorted() []Status {
	out := make([]Status, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	slices.Sort(out)
	return out
}

// Strings returns the sorted statuses as plain strings.
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, st := range sorted {
		out[i] = string(st)
	}
	return out
}

// String renders the set as a comma-separated list.
func (s Set) String() string {
	return strings.Join(s.Strings(), ", ")
}

// ParseSet builds a Set from stored string values, ignoring unknown entries.
func ParseSet(values []string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		if st := Status(v); st.Valid() {
			s[st] = struct{}{}
		}
	}
	return s
}
