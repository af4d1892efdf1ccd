// Package clock provides injectable time and identifier sources so request
// handling never reads ambient global state.
package clock

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// IDSource produces opaque attempt and object identifiers.
type IDSource func() uuid.UUID

// System is a Clock backed by the wall clock, always in UTC.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// NewIDSource returns an IDSource backed by random version 4 UUIDs.
func NewIDSource() IDSource {
	return uuid.New
}

// Fake is a settable Clock for deterministic tests.
type Fake struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFake creates a Fake fixed at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t.UTC()}
}

// Now returns the fake's current instant.
func (f *Fake) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Set moves the fake to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t.UTC()
}

// Advance moves the fake forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// SequenceIDs returns an IDSource that yields the given identifiers in order
// and then falls back to random UUIDs.
func SequenceIDs(ids ...uuid.UUID) IDSource {
	var mu sync.Mutex
	next := 0
	return func() uuid.UUID {
		mu.Lock()
		defer mu.Unlock()
		if next < len(ids) {
			id := ids[next]
			next++
			return id
		}
		return uuid.New()
	}
}
