package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/registry/pkg/query"
	"github.com/JaimeStill/registry/pkg/repository"
)

// Postgres is the durable Store. Compare-and-apply is a version-conditioned
// UPDATE committed in the same transaction as the attempt record.
type Postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres creates a Store backed by db.
func NewPostgres(db *sql.DB, logger *slog.Logger) *Postgres {
	return &Postgres{
		db:     db,
		logger: logger.With("system", "registry"),
	}
}

func (p *Postgres) Load(ctx context.Context, id string) (Object, error) {
	q, args := query.NewBuilder(objectProjection).BuildSingle("ID", id)

	o, err := repository.QueryOne(ctx, p.db, q, args, objectScanner())
	if err != nil {
		return Object{}, mapStoreError(err)
	}
	return o, nil
}

func (p *Postgres) Save(ctx context.Context, obj Object) error {
	q := `
		INSERT INTO objects(id, kind, handle, names, statuses, addresses, superordinate, subordinate_hosts, sponsor, creation_time, deletion_time, version)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			handle = EXCLUDED.handle,
			names = EXCLUDED.names,
			statuses = EXCLUDED.statuses,
			addresses = EXCLUDED.addresses,
			superordinate = EXCLUDED.superordinate,
			subordinate_hosts = EXCLUDED.subordinate_hosts,
			sponsor = EXCLUDED.sponsor,
			creation_time = EXCLUDED.creation_time,
			deletion_time = EXCLUDED.deletion_time,
			version = EXCLUDED.version`

	_, err := p.db.ExecContext(ctx, q,
		obj.ID,
		string(obj.Kind),
		obj.Handle,
		nonNil(obj.Names),
		nonNil(obj.Statuses.Strings()),
		formatAddresses(obj.Addresses),
		obj.Superordinate,
		nonNil(obj.SubordinateHosts),
		obj.Sponsor,
		obj.CreationTime,
		obj.DeletionTime,
		obj.Version,
	)
	if err != nil {
		return fmt.Errorf("save object %s: %w", obj.ID, mapStoreError(err))
	}
	return nil
}

func (p *Postgres) CompareAndApply(ctx context.Context, m Mutation) error {
	update := `
		UPDATE objects
		SET statuses = $2, deletion_time = $3, version = version + 1
		WHERE id = $1 AND version = $4`

	insert := `
		INSERT INTO delete_attempts(id, object_id, code, message, committed_at)
		VALUES ($1, $2, $3, $4, $5)`

	err := repository.InTx(ctx, p.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(tx *sql.Tx) error {
		n, err := repository.ExecAffected(ctx, tx, update,
			m.ObjectID,
			nonNil(m.Statuses.Strings()),
			m.DeletionTime,
			m.ExpectedVersion,
		)
		if err != nil {
			return err
		}
		if n == 0 {
			return p.missOrConflict(ctx, tx, m.ObjectID)
		}

		_, err = tx.ExecContext(ctx, insert,
			m.Attempt.ID,
			m.Attempt.ObjectID,
			m.Attempt.Code,
			m.Attempt.Message,
			m.Attempt.CommittedAt,
		)
		return err
	})
	if err != nil {
		return mapStoreError(err)
	}

	p.logger.Debug("mutation applied", "id", m.ObjectID, "version", m.ExpectedVersion+1, "attempt", m.Attempt.ID)
	return nil
}

func (p *Postgres) missOrConflict(ctx context.Context, tx *sql.Tx, id string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM objects WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConflict
}

func (p *Postgres) FindAttempt(ctx context.Context, id uuid.UUID) (Attempt, error) {
	q, args := query.NewBuilder(attemptProjection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, p.db, q, args, scanAttempt)
	if err != nil {
		return Attempt{}, mapStoreError(err)
	}
	return a, nil
}

func (p *Postgres) FindRegistrar(ctx context.Context, clientID string) (Registrar, error) {
	q, args := query.NewBuilder(registrarProjection).BuildSingle("ClientID", clientID)

	r, err := repository.QueryOne(ctx, p.db, q, args, scanRegistrar)
	if err != nil {
		return Registrar{}, mapStoreError(err)
	}
	return r, nil
}

func (p *Postgres) SaveRegistrar(ctx context.Context, r Registrar) error {
	q := `
		INSERT INTO registrars(client_id, name, state, type, iana_identifier)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (client_id) DO UPDATE SET
			name = EXCLUDED.name,
			state = EXCLUDED.state,
			type = EXCLUDED.type,
			iana_identifier = EXCLUDED.iana_identifier`

	_, err := p.db.ExecContext(ctx, q, r.ClientID, r.Name, string(r.State), string(r.Type), r.IANAIdentifier)
	if err != nil {
		return fmt.Errorf("save registrar %s: %w", r.ClientID, mapStoreError(err))
	}
	return nil
}

func (p *Postgres) ByNamePrefix(ctx context.Context, kind Kind, prefix string, suffix []string) ([]Ref, error) {
	var tail string
	if len(suffix) > 0 {
		tail = "." + strings.Join(suffix, ".")
	}

	q, args := query.
		NewBuilder(objectProjection, byID).
		WhereEquals("Kind", string(kind)).
		WhereAnyAffix("Names", prefix, tail, len(prefix)+len(tail)).
		BuildColumns("ID", "Kind")

	return p.refs(ctx, q, args, scanRef)
}

func (p *Postgres) ByHandlePrefix(ctx context.Context, prefix string) ([]Ref, error) {
	q, args := query.
		NewBuilder(objectProjection, byID).
		WhereEquals("Kind", string(KindContact)).
		WhereStartsWith("Handle", prefix).
		BuildColumns("ID", "Kind")

	contacts, err := p.refs(ctx, q, args, scanRef)
	if err != nil {
		return nil, err
	}

	q, args = query.
		NewBuilder(registrarProjection, query.SortField{Field: "ClientID"}).
		WhereStartsWith("ClientID", prefix).
		BuildColumns("ClientID")

	registrars, err := p.refs(ctx, q, args, scanRegistrarRef)
	if err != nil {
		return nil, err
	}

	return sortRefs(append(contacts, registrars...)), nil
}

func (p *Postgres) ByAddress(ctx context.Context, addr netip.Addr) ([]Ref, error) {
	q, args := query.
		NewBuilder(objectProjection, byID).
		WhereEquals("Kind", string(KindHost)).
		WhereAnyEquals("Addresses", addr.Unmap().String()).
		BuildColumns("ID", "Kind")

	return p.refs(ctx, q, args, scanRef)
}

func (p *Postgres) ByDomainSuffix(ctx context.Context, domain string) (SuffixResult, error) {
	q, args := query.
		NewBuilder(objectProjection).
		WhereEquals("Kind", string(KindDomain)).
		WhereAnyEquals("Names", domain).
		OrderByFields([]query.SortField{
			{Field: "CreationTime", Descending: true},
			{Field: "ID", Descending: true},
		}).
		Limit(1).
		Build()

	d, err := repository.QueryOne(ctx, p.db, q, args, objectScanner())
	if errors.Is(err, sql.ErrNoRows) {
		return SuffixResult{}, nil
	}
	if err != nil {
		return SuffixResult{}, fmt.Errorf("resolve suffix domain %s: %w", domain, mapStoreError(err))
	}

	result := SuffixResult{Found: true, Domain: d, Hosts: []Ref{}}
	if len(d.SubordinateHosts) == 0 {
		return result, nil
	}

	q, args = query.
		NewBuilder(objectProjection, byID).
		WhereEquals("Kind", string(KindHost)).
		WhereOverlaps("Names", d.SubordinateHosts).
		BuildColumns("ID", "Kind")

	result.Hosts, err = p.refs(ctx, q, args, scanRef)
	if err != nil {
		return SuffixResult{}, err
	}
	return result, nil
}

func (p *Postgres) refs(ctx context.Context, q string, args []any, scan repository.ScanFunc[Ref]) ([]Ref, error) {
	refs, err := repository.QueryMany(ctx, p.db, q, args, scan)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", mapStoreError(err))
	}
	return refs, nil
}

// mapStoreError folds driver errors into the store sentinels.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsTransient(err) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
