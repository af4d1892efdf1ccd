package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/registry/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}

	lc.WaitForStartup()
	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if lc.Ready() {
		t.Error("should not be ready after Shutdown")
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(50 * time.Millisecond); err == nil {
		t.Error("expected timeout error, got nil")
	}
}

func TestCheck(t *testing.T) {
	lc := lifecycle.New()

	if failures := lc.Check(context.Background()); len(failures) != 0 {
		t.Errorf("no probes: got %v, want none", failures)
	}

	errDown := errors.New("down")
	lc.OnProbe("database", func(context.Context) error { return nil })
	lc.OnProbe("cache", func(context.Context) error { return errDown })

	failures := lc.Check(context.Background())
	if len(failures) != 1 {
		t.Fatalf("failures: got %v, want only cache", failures)
	}
	if !errors.Is(failures["cache"], errDown) {
		t.Errorf("cache failure: got %v, want %v", failures["cache"], errDown)
	}

	lc.OnProbe("cache", func(context.Context) error { return nil })
	if failures := lc.Check(context.Background()); len(failures) != 0 {
		t.Errorf("replaced probe: got %v, want none", failures)
	}
}

func TestCheckHonorsContext(t *testing.T) {
	lc := lifecycle.New()
	lc.OnProbe("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	failures := lc.Check(ctx)
	if !errors.Is(failures["slow"], context.DeadlineExceeded) {
		t.Errorf("slow probe: got %v, want deadline exceeded", failures["slow"])
	}
}
