// Package deletion implements the status-guarded delete flow shared by all
// registry object kinds.
//
// A delete loads its target, checks ownership, replays a committed attempt,
// then applies the kind's status guard and commits through the store's
// compare-and-apply. A writer that loses the
// race reloads and re-evaluates the guard rather than overwriting. Every
// request carries an attempt id; replaying a committed attempt returns its
// recorded outcome.
package deletion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/registry/internal/history"
	"github.com/JaimeStill/registry/internal/metrics"
	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/internal/status"
	"github.com/JaimeStill/registry/pkg/clock"
)

// DefaultMaxRetries bounds compare-and-apply retries after lost races.
const DefaultMaxRetries = 3

// State is a delete flow state.
type State int

const (
	Eligible State = iota
	Applying
	Committed
	Rejected
	Failed
)

func (s State) String() string {
	switch s {
	case Eligible:
		return "eligible"
	case Applying:
		return "applying"
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Request identifies the object to delete, the acting registrar, and the
// attempt. A zero AttemptID is replaced with a fresh one.
type Request struct {
	ObjectID  string
	ClientID  string
	AttemptID uuid.UUID
}

// Outcome is the terminal result of a delete. Rejected outcomes list the
// statuses that prohibited the operation.
type Outcome struct {
	State        State           `json:"state"`
	ObjectID     string          `json:"objectId"`
	Kind         registry.Kind   `json:"kind,omitempty"`
	Handle       string          `json:"handle,omitempty"`
	Attempt      uuid.UUID       `json:"attempt"`
	Code         Code            `json:"code"`
	Message      string          `json:"message"`
	Extensions   []Extension     `json:"extensions,omitempty"`
	Prohibited   []status.Status `json:"prohibited,omitempty"`
	DeletionTime *time.Time      `json:"deletionTime,omitempty"`
	Replayed     bool            `json:"replayed,omitempty"`
}

// Archiver records committed deletes. Failures never change the outcome.
type Archiver interface {
	Store(ctx context.Context, rec history.Record) error
}

// Flow executes deletes against a store.
type Flow struct {
	store      registry.Objects
	clock      clock.Clock
	ids        clock.IDSource
	policies   Policies
	maxRetries int
	archive    Archiver
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates a Flow. A nil archive skips history; nil metrics records nothing.
func New(
	store registry.Objects,
	clk clock.Clock,
	ids clock.IDSource,
	policies Policies,
	maxRetries int,
	archive Archiver,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Flow {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Flow{
		store:      store,
		clock:      clk,
		ids:        ids,
		policies:   policies,
		maxRetries: maxRetries,
		archive:    archive,
		metrics:    m,
		logger:     logger.With("system", "deletion"),
	}
}

// Delete runs the flow for req. The returned error is nil only for
// Committed outcomes; Rejected outcomes carry a *ProhibitedError, including
// repeats against an object whose deletion has already taken effect.
func (f *Flow) Delete(ctx context.Context, req Request) (Outcome, error) {
	if req.AttemptID == uuid.Nil {
		req.AttemptID = f.ids()
	}

	out, err := f.delete(ctx, req)
	f.metrics.IncrementDelete(kindLabel(out.Kind), out.State.String())

	logger := f.logger.With(
		"object_id", req.ObjectID,
		"handle", out.Handle,
		"attempt", req.AttemptID,
	)
	switch {
	case out.State == Committed:
		logger.Info("delete committed", "code", int(out.Code), "replayed", out.Replayed)
	case out.State == Rejected:
		logger.Warn("delete rejected", "statuses", out.Prohibited)
	case errors.Is(err, ErrStoreTransient):
		logger.Warn("delete not applied, retry with the same attempt", "error", err)
	case out.Code == CodeCommandFailed:
		logger.Error("delete failed", "error", err)
	default:
		logger.Info("delete refused", "error", err)
	}

	return out, err
}

func (f *Flow) delete(ctx context.Context, req Request) (Outcome, error) {
	for retry := 0; ; retry++ {
		out := Outcome{State: Eligible, ObjectID: req.ObjectID, Attempt: req.AttemptID}

		obj, err := f.store.Load(ctx, req.ObjectID)
		if err != nil {
			return fail(out, f.storeError(err))
		}
		out.Kind, out.Handle = obj.Kind, obj.Handle

		now := f.clock.Now()
		if obj.CreationTime.After(now) {
			return fail(out, ErrNotFound)
		}
		if obj.Sponsor != req.ClientID {
			return fail(out, ErrNotOwner)
		}

		// Checked after the load so an attempt committed before it is always
		// seen; one committed after it fails the version check below.
		if replayed, done, err := f.replay(ctx, req, out, obj); done {
			return replayed, err
		}

		if !registry.Exists(obj, now) {
			return rejectDeleted(out)
		}

		policy := f.policies.For(obj.Kind)
		if !policy.Allows(obj) {
			return reject(out, status.Prohibiting(obj.Statuses, policy.Disallowed))
		}

		out.State = Applying
		statuses, deletionTime := policy.apply(obj, now)
		attempt := registry.Attempt{
			ID:          req.AttemptID,
			ObjectID:    obj.ID,
			Code:        int(policy.SuccessCode),
			Message:     policy.SuccessCode.Message(),
			CommittedAt: now,
		}

		err = f.store.CompareAndApply(ctx, registry.Mutation{
			ObjectID:        obj.ID,
			ExpectedVersion: obj.Version,
			Statuses:        statuses,
			DeletionTime:    &deletionTime,
			Attempt:         attempt,
		})

		switch {
		case err == nil:
			after := obj.Clone()
			after.Statuses = statuses
			after.DeletionTime = &deletionTime
			after.Version++
			f.record(ctx, req.ClientID, attempt, obj, after)

			out.State = Committed
			out.Code = policy.SuccessCode
			out.Message = attempt.Message
			out.Extensions = policy.Extensions
			out.DeletionTime = &deletionTime
			return out, nil

		// ErrDuplicate means this attempt committed concurrently; the next
		// iteration replays it.
		case errors.Is(err, registry.ErrConflict), errors.Is(err, registry.ErrDuplicate):
			if retry >= f.maxRetries {
				return fail(out, fmt.Errorf("%w: gave up after %d conflicting writes", ErrStoreTransient, retry+1))
			}
			f.metrics.IncrementDeleteRetry()
			f.logger.Info("delete lost compare-and-apply race, re-evaluating",
				"object_id", obj.ID,
				"version", obj.Version,
				"retry", retry+1,
			)

		default:
			return fail(out, f.storeError(err))
		}
	}
}

// replay reports done when req's attempt already committed or the lookup failed.
func (f *Flow) replay(ctx context.Context, req Request, out Outcome, obj registry.Object) (Outcome, bool, error) {
	prior, err := f.store.FindAttempt(ctx, req.AttemptID)
	if errors.Is(err, registry.ErrNotFound) {
		return Outcome{}, false, nil
	}
	if err != nil {
		out, err = fail(out, f.storeError(err))
		return out, true, err
	}
	if prior.ObjectID != req.ObjectID {
		out, err = fail(out, ErrAttemptReused)
		return out, true, err
	}

	out.State = Committed
	out.Code = Code(prior.Code)
	out.Message = prior.Message
	out.Extensions = f.policies.For(obj.Kind).Extensions
	out.DeletionTime = obj.DeletionTime
	out.Replayed = true
	return out, true, nil
}

func (f *Flow) record(ctx context.Context, clientID string, attempt registry.Attempt, before, after registry.Object) {
	if f.archive == nil {
		return
	}
	if err := f.archive.Store(ctx, history.NewRecord(clientID, attempt, before, after)); err != nil {
		f.metrics.IncrementArchiveFailure()
		f.logger.Error("archive delete history failed",
			"object_id", before.ID,
			"attempt", attempt.ID,
			"error", err,
		)
	}
}

func (f *Flow) storeError(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, registry.ErrTransient):
		return fmt.Errorf("%w: %w", ErrStoreTransient, err)
	}
	return err
}

func fail(out Outcome, err error) (Outcome, error) {
	out.State = Failed
	out.Code = failureCode(err)
	out.Message = out.Code.Message()
	return out, err
}

func reject(out Outcome, prohibited []status.Status) (Outcome, error) {
	out.State = Rejected
	out.Code = CodeStatusProhibits
	out.Message = out.Code.Message()
	out.Prohibited = prohibited
	return out, &ProhibitedError{Statuses: prohibited}
}

// rejectDeleted refuses a delete whose target is already tombstoned.
func rejectDeleted(out Outcome) (Outcome, error) {
	out.State = Rejected
	out.Code = CodeStatusProhibits
	out.Message = out.Code.Message()
	return out, &ProhibitedError{Deleted: true}
}

func kindLabel(k registry.Kind) string {
	if k == "" {
		return "unknown"
	}
	return string(k)
}
