package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema, or a database written by the original Python tool
// 1 - Added requests.stamp, dicing_done.position and their indexes
const currentSchemaVersion = 1

// Supported database/sql driver names.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// Store provides durable storage for catalog, draws and requests.
// It is constructed once per process and passed to every component that
// persists state.
type Store struct {
	db *sqlx.DB
}

type options struct {
	driver string
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the SQLite driver (DriverCGO or DriverPure).
func WithDriver(name string) Option {
	return func(o *options) { o.driver = name }
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{driver: DriverCGO}
	for _, opt := range opts {
		opt(&o)
	}
	if o.driver != DriverCGO && o.driver != DriverPure {
		return nil, fmt.Errorf("unsupported driver %q", o.driver)
	}

	db, err := sqlx.Open(o.driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time; the pipeline is
	// sequential, so one connection serves the whole process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sqlx.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sqlx.DB) error {
	var version int
	if err := db.Get(&version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 upgrades tables created by the original tool, which had no
// stamp or position columns, then creates the v1 indexes.
//
// Legacy request IDs were the roll timestamp, so they double as the stamp.
// Legacy draws were appended in draw order, so rowid order gives position.
func migrateToV1(db *sqlx.DB) error {
	tx, err := db.BeginTxx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("migrate to v1: begin tx: %w", err)
	}
	defer tx.Rollback()

	hasStamp, err := hasColumn(tx, "requests", "stamp")
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if !hasStamp {
		stmts := []string{
			`ALTER TABLE requests ADD COLUMN stamp TEXT NOT NULL DEFAULT ''`,
			`UPDATE requests SET stamp = id`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("migrate to v1: requests.stamp: %w", err)
			}
		}
	}

	hasPosition, err := hasColumn(tx, "dicing_done", "position")
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if !hasPosition {
		stmts := []string{
			`ALTER TABLE dicing_done ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,
			`UPDATE dicing_done SET position = (
				SELECT COUNT(*) FROM dicing_done AS earlier
				WHERE earlier.request_id = dicing_done.request_id
				AND earlier.rowid < dicing_done.rowid
			)`,
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("migrate to v1: dicing_done.position: %w", err)
			}
		}
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_dicing_done_position ON dicing_done(request_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_stamp ON requests(stamp)`,
	}
	for _, stmt := range indexes {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v1: commit: %w", err)
	}
	return nil
}

// hasColumn reports whether table has a column named column.
func hasColumn(q sqlx.Queryer, table, column string) (bool, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column)
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", table, err)
	}
	return n > 0, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
