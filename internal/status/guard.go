package status

import "slices"

// DeleteDisallowed is the default set of statuses that forbid deletion.
var DeleteDisallowed = NewSet(
	Linked,
	ClientDeleteProhibited,
	PendingDelete,
	ServerDeleteProhibited,
)

// IsOperationAllowed returns false iff flags and disallowed intersect.
func IsOperationAllowed(flags, disallowed Set) bool {
	small, large := flags, disallowed
	if len(small) > len(large) {
		small, large = large, small
	}
	for st := range small {
		if large.Has(st) {
			return false
		}
	}
	return true
}

// Prohibiting returns the members of flags that appear in disallowed, sorted.
func Prohibiting(flags, disallowed Set) []Status {
	out := make([]Status, 0)
	for st := range flags {
		if disallowed.Has(st) {
			out = append(out, st)
		}
	}
	slices.Sort(out)
	return out
}
