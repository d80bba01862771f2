package tests

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/prior-it/crud/postgres"
	"github.com/prior-it/crud/sqlite"
)

const testSchema = "crud_test"

// DB returns a migrated postgres database in a dedicated test schema, the schema is dropped when the test finishes.
// The test is skipped if DATABASE_URL is not set.
func DB(t *testing.T) *postgres.DB {
	t.Helper()
	ctx := context.Background()
	err := godotenv.Load("../.env")
	if err != nil {
		log.Printf("Could not load the .env file: %v", err)
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("To test postgres functionality, set the DATABASE_URL env variable to a valid database")
	}
	db, err := postgres.NewDB(ctx, url, testSchema)
	if err != nil {
		t.Fatalf("Cannot connect to the test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Cannot migrate the test database: %v", err)
	}
	t.Cleanup(func() {
		Check(db.DeleteSchema(context.Background(), testSchema))
		db.Close()
	})
	return db
}

// SQLite returns a migrated in-memory sqlite database that is closed when the test finishes.
func SQLite(t *testing.T) *sqlite.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.NewDB(ctx, sqlite.InMemory)
	if err != nil {
		t.Fatalf("Cannot open in-memory sqlite database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Cannot migrate the sqlite database: %v", err)
	}
	t.Cleanup(func() {
		Check(db.Close())
	})
	return db
}
