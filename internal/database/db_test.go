package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/codebreaker/assets"
)

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(db, assets.Migrations()); err != nil {
			t.Fatalf("migrate pass %d: %v", i, err)
		}
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("recorded migrations=%d want 2", n)
	}
	for _, table := range []string{"users", "games", "daily_results"} {
		if _, err := db.Exec(`SELECT 1 FROM ` + table + ` LIMIT 1`); err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestMigrate_FailureIsNotRecorded(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	bad := fstest.MapFS{"001_bad.sql": {Data: []byte("CREATE TABLE ( nonsense")}}
	if err := Migrate(db, bad); err == nil {
		t.Fatal("expected error for invalid migration")
	}
	var n int
	_ = db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n)
	if n != 0 {
		t.Fatalf("failed migration recorded: %d", n)
	}
}
