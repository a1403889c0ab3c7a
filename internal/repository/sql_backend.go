package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects the SQL flavour used by SQLBackend.
type Dialect int

const (
	DialectMySQL Dialect = iota
	DialectPostgres
)

// SQLBackend keeps every record kind as one row of the
// ledger_documents table.  Each Write upserts the full document for
// its kind; rows for different kinds are written independently and
// not inside a shared transaction.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLBackend constructs a SQLBackend on an open database handle.
func NewSQLBackend(db *sql.DB, dialect Dialect) *SQLBackend {
	return &SQLBackend{db: db, dialect: dialect}
}

// Migrate creates the ledger_documents table when it does not exist.
func (b *SQLBackend) Migrate(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, b.createTableQuery()); err != nil {
		return fmt.Errorf("create ledger_documents: %w", err)
	}
	return nil
}

func (b *SQLBackend) Read(ctx context.Context, kind Kind) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx, b.selectQuery(), string(kind)).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return []byte(body), nil
}

func (b *SQLBackend) Write(ctx context.Context, kind Kind, body []byte) error {
	if _, err := b.db.ExecContext(ctx, b.upsertQuery(), string(kind), string(body)); err != nil {
		return fmt.Errorf("upsert %s: %w", kind, err)
	}
	return nil
}

func (b *SQLBackend) createTableQuery() string {
	if b.dialect == DialectPostgres {
		return `CREATE TABLE IF NOT EXISTS ledger_documents (
	kind       VARCHAR(32) PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	}
	return `CREATE TABLE IF NOT EXISTS ledger_documents (
	kind       VARCHAR(32) NOT NULL PRIMARY KEY,
	body       LONGTEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) CHARACTER SET utf8mb4`
}

func (b *SQLBackend) selectQuery() string {
	if b.dialect == DialectPostgres {
		return `SELECT body FROM ledger_documents WHERE kind = $1`
	}
	return `SELECT body FROM ledger_documents WHERE kind = ?`
}

func (b *SQLBackend) upsertQuery() string {
	if b.dialect == DialectPostgres {
		return `INSERT INTO ledger_documents (kind, body) VALUES ($1, $2)
	ON CONFLICT (kind) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`
	}
	return `INSERT INTO ledger_documents (kind, body) VALUES (?, ?)
	ON DUPLICATE KEY UPDATE body = VALUES(body)`
}
