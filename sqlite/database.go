// Package sqlite implements the repositories and the permission service on top of a sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	// Registers the "sqlite3" driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// InMemory is the data source name of a private, in-memory database.
const InMemory = ":memory:"

type DB struct {
	*sql.DB
}

// Open the sqlite database at the specified path (or InMemory). Foreign keys are always enforced.
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	slog.Info("Opening sqlite database", "dsn", dsn)
	db, err := sql.Open("sqlite3", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database: %w", err)
	}
	if strings.Contains(dsn, InMemory) {
		// Every connection to an in-memory database sees its own, empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("cannot connect to sqlite database: %w", err)
	}
	return &DB{db}, nil
}

func withForeignKeys(dsn string) string {
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + "_foreign_keys=on"
}

func (db *DB) createGooseProvider() (*goose.Provider, error) {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("cannot get embedFS migrations folder: %w", err)
	}
	return goose.NewProvider(
		goose.DialectSQLite3,
		db.DB,
		migrations,
		goose.WithVerbose(true), // Enable logging (as with goose.Up)
	)
}

// Migrate the database to the latest version, this creates the tables and inserts the seed data.
// The database connection stays open.
func (db *DB) Migrate(ctx context.Context) error {
	provider, err := db.createGooseProvider()
	if err != nil {
		return fmt.Errorf("cannot create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("cannot run database migrations: %w", err)
	}
	return nil
}

// Migrate the database down a single step.
func (db *DB) MigrateDown(ctx context.Context) error {
	provider, err := db.createGooseProvider()
	if err != nil {
		return fmt.Errorf("cannot create goose provider: %w", err)
	}
	if _, err := provider.Down(ctx); err != nil {
		return fmt.Errorf("cannot run database down migrations: %w", err)
	}
	return nil
}
