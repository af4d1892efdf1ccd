package search

import (
	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/pkg/dnsname"
	"github.com/JaimeStill/registry/pkg/resultset"
)

// Notice is an informational message attached to a response.
type Notice struct {
	Title       string   `json:"title"`
	Description []string `json:"description"`
}

// IPAddresses groups a nameserver's addresses by family.
type IPAddresses struct {
	V4 []string `json:"v4,omitempty"`
	V6 []string `json:"v6,omitempty"`
}

// Nameserver is the minimal rendering of a host candidate.
type Nameserver struct {
	ObjectClassName string       `json:"objectClassName"`
	Handle          string       `json:"handle"`
	LDHName         string       `json:"ldhName"`
	UnicodeName     string       `json:"unicodeName,omitempty"`
	Status          []string     `json:"status"`
	IPAddresses     *IPAddresses `json:"ipAddresses,omitempty"`
	Sponsor         string       `json:"sponsor"`
}

// Entity is the minimal rendering of a contact or registrar candidate.
type Entity struct {
	ObjectClassName string   `json:"objectClassName"`
	Handle          string   `json:"handle"`
	Kind            string   `json:"kind"`
	Name            string   `json:"name,omitempty"`
	Status          []string `json:"status,omitempty"`
	IANAIdentifier  *int64   `json:"ianaIdentifier,omitempty"`
}

// NameserverResponse is the nameserver search response document.
type NameserverResponse struct {
	Conformance []string     `json:"rdapConformance"`
	Results     []Nameserver `json:"nameserverSearchResults"`
	Notices     []Notice     `json:"notices,omitempty"`
}

// EntityResponse is the entity search response document.
type EntityResponse struct {
	Conformance []string `json:"rdapConformance"`
	Results     []Entity `json:"entitySearchResults"`
	Notices     []Notice `json:"notices,omitempty"`
}

var (
	conformance     = []string{"rdap_level_0"}
	truncatedNotice = Notice{
		Title:       "Search Policy",
		Description: []string{"Search results per query are limited."},
	}
)

// NewNameserverResponse renders a capped nameserver result set.
func NewNameserverResponse(r resultset.Result[Candidate]) NameserverResponse {
	out := resultset.Map(r, renderNameserver)
	return NameserverResponse{
		Conformance: conformance,
		Results:     out.Data,
		Notices:     notices(out.Incomplete),
	}
}

// NewEntityResponse renders a capped entity result set.
func NewEntityResponse(r resultset.Result[Candidate]) EntityResponse {
	out := resultset.Map(r, renderEntity)
	return EntityResponse{
		Conformance: conformance,
		Results:     out.Data,
		Notices:     notices(out.Incomplete),
	}
}

func notices(incomplete bool) []Notice {
	if !incomplete {
		return nil
	}
	return []Notice{truncatedNotice}
}

func renderNameserver(c Candidate) Nameserver {
	obj := c.Object
	ns := Nameserver{
		ObjectClassName: "nameserver",
		Handle:          obj.Handle,
		LDHName:         obj.Name(),
		Status:          obj.Statuses.Strings(),
		Sponsor:         obj.Sponsor,
	}
	if u := dnsname.ToUnicode(ns.LDHName); u != ns.LDHName {
		ns.UnicodeName = u
	}

	if len(obj.Addresses) > 0 {
		ips := &IPAddresses{}
		for _, a := range obj.Addresses {
			if a.Is4() {
				ips.V4 = append(ips.V4, a.String())
			} else {
				ips.V6 = append(ips.V6, a.String())
			}
		}
		ns.IPAddresses = ips
	}
	return ns
}

func renderEntity(c Candidate) Entity {
	if c.Ref.Kind == registry.KindRegistrar {
		return Entity{
			ObjectClassName: "entity",
			Handle:          c.Registrar.ClientID,
			Kind:            string(registry.KindRegistrar),
			Name:            c.Registrar.Name,
			IANAIdentifier:  c.Registrar.IANAIdentifier,
		}
	}
	return Entity{
		ObjectClassName: "entity",
		Handle:          c.Object.Handle,
		Kind:            string(c.Object.Kind),
		Status:          c.Object.Statuses.Strings(),
	}
}
