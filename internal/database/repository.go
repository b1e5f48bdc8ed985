package database

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-dealer-jobwatch/internal/dedup"
	"go-dealer-jobwatch/internal/lifecycle"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_lifecycle (
	seq            BIGSERIAL,
	job_key        TEXT PRIMARY KEY,
	company        TEXT NOT NULL,
	source         TEXT NOT NULL,
	title          TEXT NOT NULL,
	location       TEXT NOT NULL DEFAULT '',
	url            TEXT NOT NULL DEFAULT '',
	first_seen_utc TIMESTAMPTZ NOT NULL,
	last_seen_utc  TIMESTAMPTZ NOT NULL
)`

// first_seen is only ever written on insert, last_seen only moves forward
const upsertEntry = `
INSERT INTO job_lifecycle (job_key, company, source, title, location, url, first_seen_utc, last_seen_utc)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (job_key)
DO UPDATE SET last_seen_utc = GREATEST(job_lifecycle.last_seen_utc, EXCLUDED.last_seen_utc)`

// Repository is the PostgreSQL lifecycle.Store
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse database url")
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode does not support prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to database")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "database unreachable")
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create job_lifecycle table")
	}
	return nil
}

// Load returns entries in insertion order
func (r *Repository) Load(ctx context.Context) ([]lifecycle.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT job_key, company, source, title, location, url, first_seen_utc, last_seen_utc
		FROM job_lifecycle
		ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query job_lifecycle")
	}
	defer rows.Close()

	var entries []lifecycle.Entry
	for rows.Next() {
		var e lifecycle.Entry
		var key string
		if err := rows.Scan(&key, &e.Company, &e.Source, &e.Title, &e.Location, &e.URL, &e.FirstSeen, &e.LastSeen); err != nil {
			return nil, errors.Wrap(err, "failed to scan job_lifecycle row")
		}
		e.JobKey = dedup.JobKey(key)
		e.FirstSeen = e.FirstSeen.UTC()
		e.LastSeen = e.LastSeen.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save upserts every entry in one batch; rows are never deleted
func (r *Repository) Save(ctx context.Context, entries []lifecycle.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertEntry, string(e.JobKey), e.Company, e.Source, e.Title, e.Location, e.URL, e.FirstSeen.UTC(), e.LastSeen.UTC())
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to upsert job_lifecycle")
	}
	return errors.Wrap(tx.Commit(ctx), "failed to commit job_lifecycle")
}

var _ lifecycle.Store = (*Repository)(nil)
