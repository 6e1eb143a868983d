package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, connString string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                SERIAL PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	revenue_potential DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (revenue_potential >= 0),
	days_open         INTEGER NOT NULL DEFAULT 0,
	priority_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
	contact_person    TEXT NOT NULL DEFAULT '',
	account           TEXT NOT NULL DEFAULT '',
	next_steps        TEXT NOT NULL DEFAULT '',
	due_date          DATE,
	status            TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'in-progress', 'closed')),
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS tasks_priority_score_idx ON tasks (priority_score DESC);
CREATE INDEX IF NOT EXISTS tasks_account_idx ON tasks (account);
`

// Migrate creates the tables the API needs if they are missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
