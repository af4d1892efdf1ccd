package wildcard

import "fmt"

// Class classifies a resolver rejection.
type Class int

const (
	TooManyWildcards Class = iota + 1
	SuffixAfterWildcard
	PrefixTooShort
	InvalidSuffix
	InvalidSyntax
	NotImplemented
)

func (c Class) String() string {
	switch c {
	case TooManyWildcards:
		return "too many wildcards"
	case SuffixAfterWildcard:
		return "suffix after wildcard"
	case PrefixTooShort:
		return "prefix too short"
	case InvalidSuffix:
		return "invalid suffix"
	case InvalidSyntax:
		return "invalid syntax"
	case NotImplemented:
		return "not implemented"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// Error is a classified resolver rejection. Two errors match under errors.Is
// when their classes are equal, so the package sentinels work regardless of
// the message attached.
type Error struct {
	Class   Class
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Class == e.Class
}

const labelsMessage = "Suffix after wildcard must be one or more domain name labels, e.g. exam*.tld, ns*.example.tld"

// Sentinel errors, one per class.
var (
	ErrTooManyWildcards    = &Error{Class: TooManyWildcards, Message: "Only one wildcard allowed"}
	ErrSuffixAfterWildcard = &Error{Class: SuffixAfterWildcard, Message: "Suffix not allowed after wildcard"}
	ErrPrefixTooShort      = &Error{Class: PrefixTooShort, Message: "At least two characters must be specified"}
	ErrInvalidSuffix       = &Error{Class: InvalidSuffix, Message: labelsMessage}
	ErrInvalidSyntax       = &Error{Class: InvalidSyntax, Message: "Invalid search term"}
	ErrNotImplemented      = &Error{Class: NotImplemented, Message: "Entity name search not implemented"}
)

func rejection(class Class, message string) *Error {
	return &Error{Class: class, Message: message}
}
