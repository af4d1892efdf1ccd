package registry

import (
	"fmt"
	"net/netip"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JaimeStill/registry/internal/status"
	"github.com/JaimeStill/registry/pkg/query"
	"github.com/JaimeStill/registry/pkg/repository"
)

var objectProjection = query.
	NewProjectionMap("public", "objects", "o").
	Project("id", "ID").
	Project("kind", "Kind").
	Project("handle", "Handle").
	Project("names", "Names").
	Project("statuses", "Statuses").
	Project("addresses", "Addresses").
	Project("superordinate", "Superordinate").
	Project("subordinate_hosts", "SubordinateHosts").
	Project("sponsor", "Sponsor").
	Project("creation_time", "CreationTime").
	Project("deletion_time", "DeletionTime").
	Project("version", "Version")

var registrarProjection = query.
	NewProjectionMap("public", "registrars", "r").
	Project("client_id", "ClientID").
	Project("name", "Name").
	Project("state", "State").
	Project("type", "Type").
	Project("iana_identifier", "IANAIdentifier")

var attemptProjection = query.
	NewProjectionMap("public", "delete_attempts", "a").
	Project("id", "ID").
	Project("object_id", "ObjectID").
	Project("code", "Code").
	Project("message", "Message").
	Project("committed_at", "CommittedAt")

var byID = query.SortField{Field: "ID"}

// objectScanner returns a scan func with its own type map. pgtype.Map caches
// scan plans without locking, so each query gets a fresh one.
func objectScanner() repository.ScanFunc[Object] {
	m := pgtype.NewMap()
	return func(s repository.Scanner) (Object, error) {
		var (
			o             Object
			statuses      []string
			addresses     []string
			superordinate *string
		)
		err := s.Scan(
			&o.ID,
			&o.Kind,
			&o.Handle,
			m.SQLScanner(&o.Names),
			m.SQLScanner(&statuses),
			m.SQLScanner(&addresses),
			&superordinate,
			m.SQLScanner(&o.SubordinateHosts),
			&o.Sponsor,
			&o.CreationTime,
			&o.DeletionTime,
			&o.Version,
		)
		if err != nil {
			return Object{}, err
		}

		o.Statuses = status.ParseSet(statuses)
		if superordinate != nil {
			o.Superordinate = *superordinate
		}
		o.Addresses, err = parseAddresses(addresses)
		return o, err
	}
}

func scanRef(s repository.Scanner) (Ref, error) {
	var r Ref
	err := s.Scan(&r.ID, &r.Kind)
	return r, err
}

func scanRegistrarRef(s repository.Scanner) (Ref, error) {
	r := Ref{Kind: KindRegistrar}
	err := s.Scan(&r.ID)
	return r, err
}

func scanRegistrar(s repository.Scanner) (Registrar, error) {
	var r Registrar
	err := s.Scan(
		&r.ClientID,
		&r.Name,
		&r.State,
		&r.Type,
		&r.IANAIdentifier,
	)
	return r, err
}

func scanAttempt(s repository.Scanner) (Attempt, error) {
	var a Attempt
	err := s.Scan(
		&a.ID,
		&a.ObjectID,
		&a.Code,
		&a.Message,
		&a.CommittedAt,
	)
	return a, err
}

func parseAddresses(values []string) ([]netip.Addr, error) {
	if len(values) == 0 {
		return nil, nil
	}
	addrs := make([]netip.Addr, 0, len(values))
	for _, v := range values {
		a, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("parse stored address %q: %w", v, err)
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

func formatAddresses(addrs []netip.Addr) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Unmap().String()
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
