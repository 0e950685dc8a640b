package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG is a Store backed by a Postgres table. One row per key; payloads are
// stored as raw bytes so an unparsable document round-trips untouched and
// the corruption fallback stays with the caller.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG ensures the documents table exists and returns a Postgres store.
func NewPG(ctx context.Context, pool *pgxpool.Pool) (*PG, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS session_documents (
			key TEXT PRIMARY KEY,
			payload BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("create session_documents table: %w", err)
	}
	return &PG{pool: pool}, nil
}

func (p *PG) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx,
		`SELECT payload FROM session_documents WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %q: %w", key, err)
	}
	return payload, nil
}

func (p *PG) Save(ctx context.Context, key string, payload []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO session_documents (key, payload) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = NOW()`,
		key, payload)
	if err != nil {
		return fmt.Errorf("save document %q: %w", key, err)
	}
	return nil
}

func (p *PG) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM session_documents WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}
