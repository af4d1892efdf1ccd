// Package lifecycle coordinates startup, shutdown, and readiness of the
// long-lived subsystems a server process owns.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Probe reports whether a subsystem can currently serve traffic.
type Probe func(ctx context.Context) error

// Coordinator manages startup and shutdown hooks and readiness probes.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu     sync.RWMutex
	ready  bool
	probes map[string]Probe
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		probes: make(map[string]Probe),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// OnProbe registers a named readiness probe. A later registration under the
// same name replaces the earlier one.
func (c *Coordinator) OnProbe(name string, p Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = p
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Check runs every probe concurrently and returns the failures keyed by
// probe name. An empty result means every probe passed.
func (c *Coordinator) Check(ctx context.Context) map[string]error {
	c.mu.RLock()
	probes := maps.Clone(c.probes)
	c.mu.RUnlock()

	var (
		mu       sync.Mutex
		failures = make(map[string]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range slices.Sorted(maps.Keys(probes)) {
		probe := probes[name]
		g.Go(func() error {
			if err := probe(gctx); err != nil {
				mu.Lock()
				failures[name] = err
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	return failures
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
}

// Shutdown clears the ready flag, cancels the context, and waits for
// shutdown hooks to complete within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
