// Package wildcard parses public search terms into match specifications.
//
// A term holds at most one '*'. The literal before it is a prefix; what may
// follow depends on the kind of term: handles allow nothing, names allow a
// '.'-separated label sequence, and addresses allow no wildcard at all.
package wildcard

import (
	"net/netip"
	"strings"

	"github.com/JaimeStill/registry/pkg/dnsname"
)

const (
	marker          = "*"
	minPrefixLength = 2
)

// Kind selects the syntax rules applied to a term.
type Kind int

const (
	// Name is a domain or host name; a suffix of domain labels may follow the wildcard.
	Name Kind = iota + 1
	// Handle is a repository handle or registrar client ID.
	Handle
	// Address is an IP literal.
	Address
	// EntityName is a free-text entity name. Searching it is not supported.
	EntityName
)

func (k Kind) String() string {
	switch k {
	case Name:
		return "name"
	case Handle:
		return "handle"
	case Address:
		return "address"
	case EntityName:
		return "entity name"
	}
	return "unknown"
}

// MatchSpec is a resolved term. Exactly one of Exact, Prefix (with optional
// Suffix labels) or Address is meaningful, as reported by Wildcard and Kind.
type MatchSpec struct {
	Kind     Kind
	Wildcard bool
	Exact    string
	Prefix   string
	Suffix   []string
	Address  netip.Addr
}

// SuffixDomain joins the suffix labels into a domain name.
func (m MatchSpec) SuffixDomain() string {
	return strings.Join(m.Suffix, ".")
}

// Resolve parses term under the rules for kind.
func Resolve(term string, kind Kind) (MatchSpec, error) {
	switch kind {
	case EntityName:
		return MatchSpec{}, ErrNotImplemented
	case Address:
		return resolveAddress(term)
	case Name, Handle:
	default:
		return MatchSpec{}, rejection(InvalidSyntax, "Unsupported search kind")
	}

	switch strings.Count(term, marker) {
	case 0:
		if len(term) < minPrefixLength {
			return MatchSpec{}, ErrPrefixTooShort
		}
		return MatchSpec{Kind: kind, Exact: term}, nil
	case 1:
	default:
		return MatchSpec{}, ErrTooManyWildcards
	}

	prefix, rest, _ := strings.Cut(term, marker)
	spec := MatchSpec{Kind: kind, Wildcard: true, Prefix: prefix}

	if rest != "" {
		suffix, err := resolveSuffix(rest, kind)
		if err != nil {
			return MatchSpec{}, err
		}
		spec.Suffix = suffix
	}

	if len(spec.Suffix) == 0 && len(prefix) < minPrefixLength {
		return MatchSpec{}, ErrPrefixTooShort
	}
	return spec, nil
}

func resolveSuffix(rest string, kind Kind) ([]string, error) {
	if kind == Handle {
		return nil, ErrSuffixAfterWildcard
	}

	labels, ok := strings.CutPrefix(rest, ".")
	if !ok {
		return nil, rejection(SuffixAfterWildcard, labelsMessage)
	}
	suffix := strings.Split(labels, ".")
	if !dnsname.ValidLabels(suffix) {
		return nil, ErrInvalidSuffix
	}
	return suffix, nil
}

func resolveAddress(term string) (MatchSpec, error) {
	if strings.Contains(term, marker) {
		return MatchSpec{}, rejection(InvalidSyntax, "Wildcards are not allowed in address searches")
	}
	addr, err := netip.ParseAddr(term)
	if err != nil || addr.Zone() != "" {
		return MatchSpec{}, rejection(InvalidSyntax, "Not a valid IP address")
	}
	return MatchSpec{Kind: Address, Address: addr.Unmap()}, nil
}
