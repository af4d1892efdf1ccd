package registry_test

import (
	"net/netip"
	"time"

	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/status"
)

var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func ianaID(n int64) *int64 { return &n }

func activeRegistrar(clientID string) registry.Registrar {
	return registry.Registrar{
		ClientID:       clientID,
		Name:           clientID + " Registrar",
		State:          registry.RegistrarActive,
		Type:           registry.RegistrarReal,
		IANAIdentifier: ianaID(1),
	}
}

func host(id, name string, addrs ...string) registry.Object {
	o := registry.Object{
		ID:           id,
		Kind:         registry.KindHost,
		Handle:       id,
		Names:        []string{name},
		Statuses:     status.NewSet(status.OK),
		Sponsor:      "TheRegistrar",
		CreationTime: epoch,
	}
	for _, a := range addrs {
		o.Addresses = append(o.Addresses, netip.MustParseAddr(a))
	}
	return o
}

func domain(id, name string, subordinates ...string) registry.Object {
	return registry.Object{
		ID:               id,
		Kind:             registry.KindDomain,
		Handle:           id,
		Names:            []string{name},
		Statuses:         status.NewSet(status.OK),
		SubordinateHosts: subordinates,
		Sponsor:          "TheRegistrar",
		CreationTime:     epoch,
	}
}

func contact(id, handle string) registry.Object {
	return registry.Object{
		ID:           id,
		Kind:         registry.KindContact,
		Handle:       handle,
		Statuses:     status.NewSet(status.OK),
		Sponsor:      "TheRegistrar",
		CreationTime: epoch,
	}
}
