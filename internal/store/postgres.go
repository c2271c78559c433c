package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richmedia/richmedia/backend-go/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS document_snapshots (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	owner_id    TEXT NOT NULL,
	version     INTEGER NOT NULL,
	document    JSON NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (document_id, version)
)`

// Postgres stores snapshots in a single table through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, pings and makes sure the snapshot table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Save(ctx context.Context, params SaveParams) (*Snapshot, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM document_snapshots WHERE document_id = $1`,
		params.DocumentID,
	).Scan(&current)
	if err != nil {
		return nil, fmt.Errorf("get current version: %w", err)
	}

	snap := Snapshot{
		ID:         typeid.NewSnapshotID(),
		DocumentID: params.DocumentID,
		OwnerID:    params.OwnerID,
		Version:    current + 1,
		Document:   params.Document,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO document_snapshots (id, document_id, owner_id, version, document)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		snap.ID, snap.DocumentID, snap.OwnerID, snap.Version, []byte(snap.Document),
	).Scan(&snap.CreatedAt)
	if err != nil {
		// Two writers raced for the same version
		if isDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &snap, nil
}

func (p *Postgres) Latest(ctx context.Context, documentID string) (*Snapshot, error) {
	var snap Snapshot
	var doc []byte
	err := p.pool.QueryRow(ctx,
		`SELECT id, document_id, owner_id, version, document, created_at
		 FROM document_snapshots
		 WHERE document_id = $1
		 ORDER BY version DESC
		 LIMIT 1`,
		documentID,
	).Scan(&snap.ID, &snap.DocumentID, &snap.OwnerID, &snap.Version, &doc, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	snap.Document = doc
	return &snap, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
