package postgres_test

import (
	"context"
	"testing"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/postgres"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountryRepository(t *testing.T) {
	db := tests.DB(t)
	tests.CountryRepositoryContract(t, postgres.NewCountryRepository(db))
}

func TestPersonRepository(t *testing.T) {
	db := tests.DB(t)
	tests.PersonRepositoryContract(
		t,
		postgres.NewPersonRepository(db),
		postgres.NewCountryRepository(db),
	)
}

func TestUserRepository(t *testing.T) {
	db := tests.DB(t)
	tests.UserRepositoryContract(t, postgres.NewUserRepository(db))
}

func TestPermissionService(t *testing.T) {
	db := tests.DB(t)
	tests.PermissionServiceContract(
		t,
		postgres.NewPermissionService(db),
		postgres.NewUserRepository(db),
	)
}

func TestMigrations(t *testing.T) {
	db := tests.DB(t)
	ctx := context.Background()
	countries := postgres.NewCountryRepository(db)

	t.Run("ok: seed data can be migrated down and up again", func(t *testing.T) {
		// Identity tables
		require.Nil(t, db.MigrateDown(ctx))
		// Seed data
		require.Nil(t, db.MigrateDown(ctx))

		list, err := countries.ListCountries(ctx)
		require.Nil(t, err)
		assert.Empty(t, list)

		require.Nil(t, db.Migrate(ctx))
		list, err = countries.ListCountries(ctx)
		require.Nil(t, err)
		assert.Len(t, list, tests.SeedCountries)
	})

	t.Run("ok: migrating twice is a no-op", func(t *testing.T) {
		require.Nil(t, db.Migrate(ctx))
		_, err := countries.GetCountryByID(ctx, tests.SeedEgypt)
		assert.Nil(t, err)
		_, err = countries.GetCountryByName(ctx, "Atlantis")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
