package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=splitledger sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Migrate creates the schema when it does not exist yet. The unique
// constraints here are load-bearing: transactions_external_id_key backs
// the idempotency guarantee and transaction_participant_unique rejects a
// user holding the same role twice in one transaction.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			external_id VARCHAR(100) NOT NULL,
			total_amount BIGINT NOT NULL CHECK (total_amount > 0),
			created_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT transactions_external_id_key UNIQUE (external_id)
		)`,
		`CREATE TABLE IF NOT EXISTS transaction_participants (
			id UUID PRIMARY KEY,
			transaction_id UUID NOT NULL REFERENCES transactions (id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users (id),
			role VARCHAR(10) NOT NULL CHECK (role IN ('SENDER', 'RECEIVER')),
			share BIGINT NOT NULL CHECK (share > 0),
			share_amount BIGINT NOT NULL CHECK (share_amount >= 0),
			position INT NOT NULL CHECK (position >= 0),
			CONSTRAINT transaction_participant_unique UNIQUE (transaction_id, user_id, role)
		)`,
		`CREATE INDEX IF NOT EXISTS transaction_participants_user_role_idx
			ON transaction_participants (user_id, role)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
