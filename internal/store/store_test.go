package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.db.Get(&count, "SELECT COUNT(*) FROM requests"); err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"dices", "dicing_done", "requests"} {
		var name string
		err := s.db.Get(&name, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "test.db"), WithDriver("postgres"))
	if err == nil {
		t.Error("expected error for unsupported driver, got nil")
	}
}

func TestOpen_PureDriver(t *testing.T) {
	s := createTestStore(t, WithDriver(DriverPure))

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	columns := getTableColumns(t, s.db, "dicing_done")
	if !contains(columns, "position") {
		t.Errorf("dicing_done missing position column, got %v", columns)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

// Pragma tests

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name, want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
		{"user_version", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.verifyPragma(tt.name, tt.want); err != nil {
				t.Error(err)
			}
		})
	}
}

// Schema tests

func TestSchema_Tables(t *testing.T) {
	s := createTestStore(t)

	tests := map[string][]string{
		"dices":       {"group", "dice", "side", "word", "jpg"},
		"dicing_done": {"request_id", "position", "dice", "side", "word", "jpg"},
		"requests":    {"id", "stamp", "genre", "request", "answer"},
	}
	for table, expected := range tests {
		columns := getTableColumns(t, s.db, table)
		for _, col := range expected {
			if !contains(columns, col) {
				t.Errorf("%s table missing column %q", table, col)
			}
		}
	}
}

func TestSchema_Indexes(t *testing.T) {
	s := createTestStore(t)

	if !contains(getTableIndexes(t, s.db, "dicing_done"), "idx_dicing_done_position") {
		t.Error("dicing_done table missing index idx_dicing_done_position")
	}
	if !contains(getTableIndexes(t, s.db, "requests"), "idx_requests_stamp") {
		t.Error("requests table missing index idx_requests_stamp")
	}
}

func TestConstraint_DrawPositionUnique(t *testing.T) {
	s := createTestStore(t)

	insert := `INSERT INTO dicing_done (request_id, position, dice, side, word, jpg) VALUES ('r', 0, ?, 1, 'w', 'j')`
	if _, err := s.db.Exec(insert, 1); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := s.db.Exec(insert, 2); err == nil {
		t.Error("expected unique violation for duplicate (request_id, position)")
	}
}

func getTableColumns(t *testing.T, db *sqlx.DB, table string) []string {
	t.Helper()

	var columns []string
	if err := db.Select(&columns, "SELECT name FROM pragma_table_info(?)", table); err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sqlx.DB, table string) []string {
	t.Helper()

	var indexes []string
	if err := db.Select(&indexes, "SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table); err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	return indexes
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
