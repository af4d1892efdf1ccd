package api

import (
	"fmt"

	"github.com/JaimeStill/registry/internal/deletion"
	"github.com/JaimeStill/registry/internal/history"
	"github.com/JaimeStill/registry/internal/search"
)

// Domain holds all domain systems that comprise the API.
// History is nil when blob storage is not configured.
type Domain struct {
	Search   *search.Engine
	Deletion *deletion.Flow
	History  *history.Archive
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	pending := runtime.Delete.PendingPeriodDuration()

	policies, err := deletion.DefaultPolicies(pending).WithModes(runtime.Delete.Modes, pending)
	if err != nil {
		return nil, fmt.Errorf("delete policies: %w", err)
	}

	var (
		archive  *history.Archive
		archiver deletion.Archiver
	)
	if runtime.Storage != nil {
		archive = history.New(runtime.Storage, runtime.Logger)
		archiver = archive
	}

	engine := search.New(
		runtime.Store,
		runtime.Clock,
		runtime.ResultSet,
		runtime.Metrics,
		runtime.Logger,
	)

	flow := deletion.New(
		runtime.Store,
		runtime.Clock,
		runtime.IDs,
		policies,
		runtime.Delete.MaxRetries,
		archiver,
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Search:   engine,
		Deletion: flow,
		History:  archive,
	}, nil
}
