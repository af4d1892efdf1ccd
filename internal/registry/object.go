// Package registry implements the registry object model, the visibility policy
// shared by mutation and lookup paths, and the store contracts (point-in-time
// fetch, secondary indexes, compare-and-apply) with memory and PostgreSQL
// implementations.
package registry

import (
	"net/netip"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/registry/internal/status"
)

// Kind identifies an object variant.
type Kind string

const (
	KindDomain    Kind = "domain"
	KindHost      Kind = "host"
	KindContact   Kind = "contact"
	KindRegistrar Kind = "registrar"
)

// Valid reports whether k names a stored object variant.
func (k Kind) Valid() bool {
	switch k {
	case KindDomain, KindHost, KindContact:
		return true
	}
	return false
}

// Object is a registry resource: a domain, host, or contact.
//
// Superordinate and Sponsor are weak references resolved through the store;
// the referent's lifecycle is independent of this object.
type Object struct {
	ID               string       `json:"id"`
	Kind             Kind         `json:"kind"`
	Handle           string       `json:"handle"`
	Names            []string     `json:"names"`
	Statuses         status.Set   `json:"-"`
	Addresses        []netip.Addr `json:"addresses,omitempty"`
	Superordinate    string       `json:"superordinate,omitempty"`
	SubordinateHosts []string     `json:"subordinate_hosts,omitempty"`
	Sponsor          string       `json:"sponsor"`
	CreationTime     time.Time    `json:"creation_time"`
	DeletionTime     *time.Time   `json:"deletion_time,omitempty"`
	Version          int64        `json:"version"`
}

// Name returns the primary indexed name, or the empty string.
func (o Object) Name() string {
	if len(o.Names) == 0 {
		return ""
	}
	return o.Names[0]
}

// HasName reports whether name is one of the object's indexed names.
func (o Object) HasName(name string) bool {
	return slices.Contains(o.Names, name)
}

// HasAddress reports whether addr is one of the object's addresses.
func (o Object) HasAddress(addr netip.Addr) bool {
	return slices.Contains(o.Addresses, addr.Unmap())
}

// Ref returns the object's index reference.
func (o Object) Ref() Ref {
	return Ref{Kind: o.Kind, ID: o.ID}
}

// Clone returns a deep copy so callers can mutate without aliasing store state.
func (o Object) Clone() Object {
	c := o
	c.Names = slices.Clone(o.Names)
	c.Addresses = slices.Clone(o.Addresses)
	c.SubordinateHosts = slices.Clone(o.SubordinateHosts)
	if o.Statuses != nil {
		c.Statuses = o.Statuses.Clone()
	}
	if o.DeletionTime != nil {
		t := *o.DeletionTime
		c.DeletionTime = &t
	}
	return c
}

// Ref is an opaque reference to a candidate returned by an index query.
// Registrar refs carry the registrar client ID.
type Ref struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// RegistrarState is the operational state of a registrar.
type RegistrarState string

const (
	RegistrarActive    RegistrarState = "ACTIVE"
	RegistrarPending   RegistrarState = "PENDING"
	RegistrarSuspended RegistrarState = "SUSPENDED"
	RegistrarDisabled  RegistrarState = "DISABLED"
)

// RegistrarType classifies a registrar account.
type RegistrarType string

const (
	RegistrarReal               RegistrarType = "REAL"
	RegistrarTest               RegistrarType = "TEST"
	RegistrarInternal           RegistrarType = "INTERNAL"
	RegistrarMonitoring         RegistrarType = "MONITORING"
	RegistrarExternalMonitoring RegistrarType = "EXTERNAL_MONITORING"
	RegistrarPDT                RegistrarType = "PDT"
)

// Registrar is a sponsoring account. ClientID doubles as its entity handle.
type Registrar struct {
	ClientID       string         `json:"client_id"`
	Name           string         `json:"name"`
	State          RegistrarState `json:"state"`
	Type           RegistrarType  `json:"type"`
	IANAIdentifier *int64         `json:"iana_identifier,omitempty"`
}

// Ref returns the registrar's entity reference.
func (r Registrar) Ref() Ref {
	return Ref{Kind: KindRegistrar, ID: r.ClientID}
}

// Attempt records a committed mutation so replays of the same attempt return
// the original outcome.
type Attempt struct {
	ID          uuid.UUID `json:"id"`
	ObjectID    string    `json:"object_id"`
	Code        int       `json:"code"`
	Message     string    `json:"message"`
	CommittedAt time.Time `json:"committed_at"`
}

// Mutation is a compare-and-apply request against a single object. It only
// succeeds when the stored version equals ExpectedVersion.
type Mutation struct {
	ObjectID        string
	ExpectedVersion int64
	Statuses        status.Set
	DeletionTime    *time.Time
	Attempt         Attempt
}
