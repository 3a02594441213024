package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/polyfill/pkg/pg"
)

// Migrations holds the PostgreSQL schema for PostgresProvider, for use with
// pg.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// PgxConn is the subset of pgx used by PostgresProvider.
// *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it.
type PgxConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const (
	selectMetaQuery    = `SELECT meta FROM polyfills WHERE name = $1`
	selectRawQuery     = `SELECT raw FROM polyfills WHERE name = $1`
	selectMinQuery     = `SELECT min FROM polyfills WHERE name = $1`
	selectAliasesQuery = `SELECT name, members FROM polyfill_aliases ORDER BY name`

	upsertPolyfillQuery = `INSERT INTO polyfills (name, meta, raw, min)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE
SET meta = EXCLUDED.meta, raw = EXCLUDED.raw, min = EXCLUDED.min, updated_at = now()`

	upsertAliasQuery = `INSERT INTO polyfill_aliases (name, members)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE
SET members = EXCLUDED.members, updated_at = now()`
)

// PostgresProvider reads the catalog from the polyfills and polyfill_aliases
// tables created by Migrations.
type PostgresProvider struct {
	db PgxConn
}

// NewPostgresProvider returns a catalog backed by db.
func NewPostgresProvider(db PgxConn) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func classifyPgError(err error, operation string) error {
	if pg.IsNotFoundError(err) {
		return ErrNotFound
	}
	return errors.Join(ErrBackendFailure, fmt.Errorf("%s: %w", operation, err))
}

func (p *PostgresProvider) Meta(ctx context.Context, name string) (*Meta, error) {
	var data []byte
	if err := p.db.QueryRow(ctx, selectMetaQuery, name).Scan(&data); err != nil {
		return nil, classifyPgError(err, "select meta")
	}
	return DecodeMeta(data)
}

func (p *PostgresProvider) Source(ctx context.Context, name string, variant Variant) (string, error) {
	var query string
	switch variant {
	case VariantRaw:
		query = selectRawQuery
	case VariantMin:
		query = selectMinQuery
	default:
		return "", ErrInvalidVariant
	}

	var text *string
	if err := p.db.QueryRow(ctx, query, name).Scan(&text); err != nil {
		return "", classifyPgError(err, "select source")
	}
	if text == nil {
		return "", ErrNotFound
	}
	return *text, nil
}

func (p *PostgresProvider) Aliases(ctx context.Context) (map[string][]string, error) {
	rows, err := p.db.Query(ctx, selectAliasesQuery)
	if err != nil {
		return nil, classifyPgError(err, "select aliases")
	}
	defer rows.Close()

	aliases := make(map[string][]string)
	for rows.Next() {
		var (
			name    string
			members []string
		)
		if err := rows.Scan(&name, &members); err != nil {
			return nil, classifyPgError(err, "scan alias")
		}
		aliases[name] = members
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(err, "read aliases")
	}
	return aliases, nil
}

// WriteRecords upserts a batch of features in one round trip.
func (p *PostgresProvider) WriteRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		meta, err := EncodeMeta(r.Meta)
		if err != nil {
			return fmt.Errorf("%w: %s", err, r.Name)
		}
		batch.Queue(upsertPolyfillQuery, r.Name, meta, r.Raw, r.Min)
	}
	return p.sendBatch(ctx, batch, "upsert polyfills")
}

func (p *PostgresProvider) WriteAliases(ctx context.Context, aliases map[string][]string) error {
	if len(aliases) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for name, members := range aliases {
		batch.Queue(upsertAliasQuery, name, members)
	}
	return p.sendBatch(ctx, batch, "upsert aliases")
}

func (p *PostgresProvider) sendBatch(ctx context.Context, batch *pgx.Batch, operation string) (err error) {
	results := p.db.SendBatch(ctx, batch)
	defer func() {
		if cerr := results.Close(); cerr != nil && err == nil {
			err = classifyPgError(cerr, operation)
		}
	}()

	for range batch.Len() {
		if _, err = results.Exec(); err != nil {
			return classifyPgError(err, operation)
		}
	}
	return nil
}
