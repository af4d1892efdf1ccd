// Package history archives committed deletions to blob storage. The store
// remains authoritative; archive records exist for audit and offline review.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/registry/internal/registry"
	"github.com/JaimeStill/registry/pkg/storage"
)

// Snapshot is an object's archived state at one side of a mutation.
type Snapshot struct {
	registry.Object
	Statuses []string `json:"statuses"`
}

// Record describes one committed deletion.
type Record struct {
	Attempt  uuid.UUID     `json:"attempt"`
	ObjectID string        `json:"object_id"`
	Kind     registry.Kind `json:"kind"`
	Handle   string        `json:"handle"`
	ClientID string        `json:"client_id"`
	Code     int           `json:"code"`
	Message  string        `json:"message"`
	Before   Snapshot      `json:"before"`
	After    Snapshot      `json:"after"`
	Time     time.Time     `json:"time"`
}

// NewRecord builds a record from the object before and after a committed attempt.
func NewRecord(clientID string, attempt registry.Attempt, before, after registry.Object) Record {
	return Record{
		Attempt:  attempt.ID,
		ObjectID: before.ID,
		Kind:     before.Kind,
		Handle:   before.Handle,
		ClientID: clientID,
		Code:     attempt.Code,
		Message:  attempt.Message,
		Before:   snapshot(before),
		After:    snapshot(after),
		Time:     attempt.CommittedAt,
	}
}

// Key returns the blob key for a handle's attempt.
func Key(handle string, attempt uuid.UUID) string {
	return fmt.Sprintf("history/%s/%s.json", handle, attempt)
}

// Archive writes and reads history records through a storage.System.
type Archive struct {
	storage storage.System
	logger  *slog.Logger
}

// New creates an Archive over store.
func New(store storage.System, logger *slog.Logger) *Archive {
	return &Archive{
		storage: store,
		logger:  logger.With("system", "history"),
	}
}

// Store archives rec. A record already present under the same key is left untouched.
func (a *Archive) Store(ctx context.Context, rec Record) error {
	key := Key(rec.Handle, rec.Attempt)

	exists, err := a.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}
	if exists {
		a.logger.Info("history record already archived", "key", key)
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}

	if err := a.storage.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}

	a.logger.Info("history record archived", "key", key, "object_id", rec.ObjectID)
	return nil
}

// Load reads the record archived for a handle's attempt.
func (a *Archive) Load(ctx context.Context, handle string, attempt uuid.UUID) (Record, error) {
	rc, err := a.storage.Download(ctx, Key(handle, attempt))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("load history record: %w", err)
	}
	defer rc.Close()

	var rec Record
	if err := json.NewDecoder(rc).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("decode history record: %w", err)
	}
	return rec, nil
}

func snapshot(o registry.Object) Snapshot {
	return Snapshot{Object: o, Statuses: o.Statuses.Strings()}
}
