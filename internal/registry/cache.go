package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/JaimeStill/registry/pkg/cache"
)

const registrarKeyPrefix = "registrar:"

// CachedRegistrars decorates a Store with a read-through registrar cache.
// Cache failures degrade to direct store reads; they never fail a lookup.
type CachedRegistrars struct {
	Store
	cache  cache.System
	logger *slog.Logger
}

// WithRegistrarCache wraps store so FindRegistrar is served from c when possible.
func WithRegistrarCache(store Store, c cache.System, logger *slog.Logger) *CachedRegistrars {
	return &CachedRegistrars{
		Store:  store,
		cache:  c,
		logger: logger.With("system", "registrar-cache"),
	}
}

func (c *CachedRegistrars) FindRegistrar(ctx context.Context, clientID string) (Registrar, error) {
	key := registrarKeyPrefix + clientID

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var r Registrar
		if err := json.Unmarshal(data, &r); err == nil {
			return r, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "client_id", clientID)
	case !errors.Is(err, cache.ErrMiss):
		c.logger.Warn("registrar cache read failed", "client_id", clientID, "error", err)
	}

	r, err := c.Store.FindRegistrar(ctx, clientID)
	if err != nil {
		return Registrar{}, err
	}

	if data, err := json.Marshal(r); err == nil {
		if err := c.cache.Set(ctx, key, data); err != nil {
			c.logger.Warn("registrar cache write failed", "client_id", clientID, "error", err)
		}
	}
	return r, nil
}

func (c *CachedRegistrars) SaveRegistrar(ctx context.Context, r Registrar) error {
	if err := c.Store.SaveRegistrar(ctx, r); err != nil {
		return err
	}
	if err := c.cache.Delete(ctx, registrarKeyPrefix+r.ClientID); err != nil {
		c.logger.Warn("registrar cache eviction failed", "client_id", r.ClientID, "error", err)
	}
	return nil
}
