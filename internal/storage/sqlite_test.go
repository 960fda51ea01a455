package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "polls.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "polls.db")

	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := setupTestDB(t)

	var name string
	err := db.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='poll_data'").Scan(&name)
	if err != nil {
		t.Errorf("poll_data table not found: %v", err)
	}
}

func TestMigrate_Twice(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
}

func TestPollDataRepository(t *testing.T) {
	testStore(t, NewPollDataRepository(setupTestDB(t)))
}
