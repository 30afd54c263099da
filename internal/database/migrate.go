// Package database はデータベース接続とスキーマ管理を提供する。
package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateLogger はgolang-migrateのログをslogに流す。
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }

// NewMigrator はマイグレーション実行用のmigrateインスタンスを生成する。
// databaseURLはPostgreSQLの接続URLを指定する。
func NewMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	m.Log = &migrateLogger{}

	return m, nil
}

// CreateTables はすべてのマイグレーションを適用してテーブルを作成する。
// すでに最新の場合はエラーなしで返る。
func CreateTables(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// DropTables はすべてのマイグレーションを巻き戻してテーブルを削除する。
// テーブルが存在しない場合はエラーなしで返る。
func DropTables(databaseURL string) error {
	m, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	return nil
}
