package registry_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/registry/internal/registry"
)

func TestRegistrarVisible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*registry.Registrar)
		want   bool
	}{
		{"active real", func(*registry.Registrar) {}, true},
		{"pending", func(r *registry.Registrar) { r.State = registry.RegistrarPending }, false},
		{"suspended", func(r *registry.Registrar) { r.State = registry.RegistrarSuspended }, false},
		{"test type", func(r *registry.Registrar) { r.Type = registry.RegistrarTest }, false},
		{"no iana id", func(r *registry.Registrar) { r.IANAIdentifier = nil }, false},
		{"internal type", func(r *registry.Registrar) { r.Type = registry.RegistrarInternal }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := activeRegistrar("TheRegistrar")
			tt.mutate(&r)
			assert.Equal(t, tt.want, r.Visible())
		})
	}
}

func TestExists(t *testing.T) {
	o := contact("1-ROID", "H1")
	deleted := epoch.Add(24 * time.Hour)
	o.DeletionTime = &deleted

	assert.False(t, registry.Exists(o, epoch.Add(-time.Second)), "before creation")
	assert.True(t, registry.Exists(o, epoch), "at creation")
	assert.True(t, registry.Exists(o, deleted.Add(-time.Nanosecond)), "just before deletion")
	assert.False(t, registry.Exists(o, deleted), "at deletion")
	assert.False(t, registry.Exists(o, deleted.Add(time.Hour)), "after deletion")
}

func TestIsVisible(t *testing.T) {
	o := contact("1-ROID", "H1")
	r := activeRegistrar("TheRegistrar")
	hidden := r
	hidden.Type = registry.RegistrarTest

	assert.True(t, registry.IsVisible(o, &r, epoch))
	assert.False(t, registry.IsVisible(o, nil, epoch))
	assert.False(t, registry.IsVisible(o, &hidden, epoch))

	deleted := epoch
	o.DeletionTime = &deleted
	assert.False(t, registry.IsVisible(o, &r, epoch))
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, registry.MapHTTPStatus(registry.ErrNotFound))
	assert.Equal(t, http.StatusConflict, registry.MapHTTPStatus(registry.ErrDuplicate))
	assert.Equal(t, http.StatusConflict, registry.MapHTTPStatus(registry.ErrConflict))
	assert.Equal(t, http.StatusServiceUnavailable, registry.MapHTTPStatus(registry.ErrTransient))
	assert.Equal(t, http.StatusInternalServerError, registry.MapHTTPStatus(assert.AnError))
}
