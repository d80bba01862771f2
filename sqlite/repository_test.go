package sqlite_test

import (
	"context"
	"testing"

	"github.com/prior-it/crud/sqlite"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryRepository(t *testing.T) {
	db := tests.SQLite(t)
	tests.CountryRepositoryContract(t, sqlite.NewCountryRepository(db))
}

func TestPersonRepository(t *testing.T) {
	db := tests.SQLite(t)
	tests.PersonRepositoryContract(
		t,
		sqlite.NewPersonRepository(db),
		sqlite.NewCountryRepository(db),
	)
}

func TestUserRepository(t *testing.T) {
	db := tests.SQLite(t)
	tests.UserRepositoryContract(t, sqlite.NewUserRepository(db))
}

func TestPermissionService(t *testing.T) {
	db := tests.SQLite(t)
	tests.PermissionServiceContract(
		t,
		sqlite.NewPermissionService(db),
		sqlite.NewUserRepository(db),
	)
}

func TestMigrations(t *testing.T) {
	db := tests.SQLite(t)
	ctx := context.Background()
	persons := sqlite.NewPersonRepository(db)

	t.Run("ok: seed data can be migrated down and up again", func(t *testing.T) {
		// Identity tables
		require.Nil(t, db.MigrateDown(ctx))
		// Seed data
		require.Nil(t, db.MigrateDown(ctx))

		list, err := persons.ListPersons(ctx)
		require.Nil(t, err)
		assert.Empty(t, list)

		require.Nil(t, db.Migrate(ctx))
		list, err = persons.ListPersons(ctx)
		require.Nil(t, err)
		assert.Len(t, list, tests.SeedPersons)
	})

	t.Run("ok: file database", func(t *testing.T) {
		db, err := sqlite.NewDB(ctx, t.TempDir()+"/crud.db")
		require.Nil(t, err)
		defer db.Close()
		require.Nil(t, db.Migrate(ctx))
		require.Nil(t, db.Migrate(ctx))

		list, err := sqlite.NewCountryRepository(db).ListCountries(ctx)
		require.Nil(t, err)
		assert.Len(t, list, tests.SeedCountries)
	})
}
