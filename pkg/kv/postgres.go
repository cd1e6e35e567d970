package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool used by Postgres.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores preferences in the visitor_preferences table
// created by the migrations in pkg/db.
type Postgres struct {
	db      DB
	visitor string
}

func NewPostgres(db DB) *Postgres {
	return &Postgres{db: db}
}

// Scope binds the store to one visitor row set.
func (p *Postgres) Scope(visitorID string) Store {
	return &Postgres{db: p.db, visitor: visitorID}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	var value string
	err := p.db.QueryRow(ctx,
		`SELECT value FROM visitor_preferences WHERE visitor_id = $1 AND key = $2`,
		p.visitor, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kv: get %q: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := p.db.Exec(ctx,
		`INSERT INTO visitor_preferences (visitor_id, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (visitor_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		p.visitor, key, value,
	)
	if err != nil {
		return fmt.Errorf("kv: set %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx,
		`DELETE FROM visitor_preferences WHERE visitor_id = $1 AND key = $2`,
		p.visitor, key,
	)
	if err != nil {
		return fmt.Errorf("kv: remove %q: %w", key, err)
	}
	return nil
}

// Purge deletes every row not written within retention.
func (p *Postgres) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := p.db.Exec(ctx,
		`DELETE FROM visitor_preferences WHERE updated_at < $1`,
		time.Now().Add(-retention),
	)
	if err != nil {
		return 0, fmt.Errorf("kv: purge: %w", err)
	}
	return tag.RowsAffected(), nil
}
