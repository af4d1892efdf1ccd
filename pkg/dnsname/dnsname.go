// Package dnsname validates and converts domain names between their canonical
// ASCII-compatible encoding and the derived Unicode presentation form.
//
// Canonical names are what the registry indexes and what public queries must
// use. Non-ASCII input is rejected rather than transcoded so a lookup never
// silently matches something other than what the caller asked for.
package dnsname

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

const (
	maxLabelLength = 63
	maxNameLength  = 253
	acePrefix      = "xn--"
)

var (
	// ErrNotCanonical indicates the name contains raw non-ASCII characters.
	ErrNotCanonical = errors.New("name must use the ASCII-compatible (punycode) form")
	// ErrInvalidName indicates the name is not a syntactically valid label sequence.
	ErrInvalidName = errors.New("invalid domain name")
)

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Fold lowercases an ASCII name and strips a single trailing root dot.
// It returns ErrNotCanonical for non-ASCII input.
func Fold(name string) (string, error) {
	if !isASCII(name) {
		return "", ErrNotCanonical
	}
	name = strings.TrimSuffix(name, ".")
	return strings.ToLower(name), nil
}

// Canonicalize folds a full domain name and verifies every label.
func Canonicalize(name string) (string, error) {
	folded, err := Fold(name)
	if err != nil {
		return "", err
	}
	if folded == "" || len(folded) > maxNameLength {
		return "", ErrInvalidName
	}
	if !ValidLabels(strings.Split(folded, ".")) {
		return "", ErrInvalidName
	}
	return folded, nil
}

// ValidLabels reports whether every label is a non-empty LDH label of at most
// 63 octets. Labels carrying the ACE prefix must decode as punycode.
func ValidLabels(labels []string) bool {
	if len(labels) == 0 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

// ValidPrefix reports whether prefix can begin a valid name: every label
// before the last '.' is a complete label and the trailing partial label, if
// any, uses only LDH characters and does not start with a hyphen.
func ValidPrefix(prefix string) bool {
	labels := strings.Split(prefix, ".")
	partial := labels[len(labels)-1]
	for _, label := range labels[:len(labels)-1] {
		if !validLabel(label) {
			return false
		}
	}
	if partial == "" {
		return true
	}
	return len(partial) <= maxLabelLength && partial[0] != '-' && ldh(partial)
}

// ToUnicode derives the presentation form of a canonical name. Names that do
// not decode are returned unchanged.
func ToUnicode(name string) string {
	u, err := idna.Display.ToUnicode(name)
	if err != nil {
		return name
	}
	return u
}

func validLabel(label string) bool {
	if label == "" || len(label) > maxLabelLength {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' || !ldh(label) {
		return false
	}
	if strings.HasPrefix(strings.ToLower(label), acePrefix) {
		if _, err := idna.Punycode.ToUnicode(label); err != nil {
			return false
		}
	}
	return true
}

func ldh(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}
