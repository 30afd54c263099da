package database

import (
	"testing"
)

// TestOpen_ReturnsDBForAnyURL はsqlx.Openが接続を試行しないため、
// 任意のURLでもDBオブジェクトが返ることを検証する。
func TestOpen_ReturnsDBForAnyURL(t *testing.T) {
	db, err := Open("postgres://invalid")
	if err != nil {
		t.Fatalf("Open returned unexpected error: %v", err)
	}
	if db == nil {
		t.Fatal("expected non-nil db")
	}
	defer db.Close()

	if db.DriverName() != "postgres" {
		t.Errorf("DriverName() = %q, want %q", db.DriverName(), "postgres")
	}
}

// TestMigrationsEmbedded はマイグレーションファイルがバイナリに埋め込まれていることを検証する。
func TestMigrationsEmbedded(t *testing.T) {
	for _, name := range []string{
		"migrations/000001_create_tables.up.sql",
		"migrations/000001_create_tables.down.sql",
	} {
		data, err := migrationsFS.ReadFile(name)
		if err != nil {
			t.Fatalf("embedded migration %s not found: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("embedded migration %s is empty", name)
		}
	}
}
