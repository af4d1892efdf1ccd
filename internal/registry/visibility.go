package registry

import "time"

// Visible reports whether the registrar may be disclosed publicly.
func (r Registrar) Visible() bool {
	return r.State == RegistrarActive &&
		r.Type != RegistrarTest &&
		r.IANAIdentifier != nil
}

// Exists reports whether the object exists at t: created no later than t and
// not tombstoned at or before t.
func Exists(o Object, t time.Time) bool {
	if !o.CreationTime.IsZero() && o.CreationTime.After(t) {
		return false
	}
	if o.DeletionTime != nil && !o.DeletionTime.After(t) {
		return false
	}
	return true
}

// IsVisible applies the public visibility policy at t. A nil sponsor means the
// sponsoring registrar could not be resolved and the object is hidden.
func IsVisible(o Object, sponsor *Registrar, t time.Time) bool {
	if !Exists(o, t) {
		return false
	}
	if sponsor == nil || !sponsor.Visible() {
		return false
	}
	return true
}
