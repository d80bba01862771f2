package bootstrap_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prior-it/crud/account"
	"github.com/prior-it/crud/bootstrap"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
	"github.com/prior-it/crud/sqlite"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = config.AdminConfig{
	Name:     "Admin",
	Email:    "admin@crud.com",
	Password: "Password1!",
}

func TestSeedIdentity(t *testing.T) {
	ctx := context.Background()
	db := tests.SQLite(t)
	perms := sqlite.NewPermissionService(db)
	accounts := account.NewService(sqlite.NewUserRepository(db), perms, nil, tests.Logger)

	t.Run("ok: roles and admin account are created", func(t *testing.T) {
		require.Nil(t, bootstrap.SeedIdentity(ctx, accounts, perms, admin, tests.Logger))

		groups, err := perms.ListPermissionGroups(ctx)
		require.Nil(t, err)
		names := make([]string, len(groups))
		for i, g := range groups {
			names[i] = g.Name
		}
		assert.ElementsMatch(t, []string{permissions.RoleAdmin, permissions.RoleModerator, permissions.RoleUser}, names)

		user, err := accounts.VerifyPassword(ctx, &dto.Credentials{Email: admin.Email, Password: admin.Password})
		require.Nil(t, err)
		profile, err := accounts.GetUser(ctx, user.ID)
		require.Nil(t, err)
		assert.True(t, profile.Admin)
		assert.Len(t, profile.Permissions, len(permissions.AllPermissions()))
	})

	t.Run("ok: seeding twice changes nothing", func(t *testing.T) {
		require.Nil(t, bootstrap.SeedIdentity(ctx, accounts, perms, admin, tests.Logger))

		count, err := accounts.CountUsers(ctx)
		require.Nil(t, err)
		assert.Equal(t, uint64(1), count)

		groups, err := perms.ListPermissionGroups(ctx)
		require.Nil(t, err)
		assert.Len(t, groups, 3)
	})

	t.Run("ok: moderators cannot delete persons", func(t *testing.T) {
		moderator, err := perms.GetPermissionGroupByName(ctx, permissions.RoleModerator)
		require.Nil(t, err)
		assert.True(t, moderator.Permissions[permissions.PermEditPersons])
		assert.False(t, moderator.Permissions[permissions.PermDeletePersons])
		assert.False(t, moderator.Permissions[permissions.PermEditCountries])
	})
}

func TestFull(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		App: config.AppConfig{
			Name:    "crud-test",
			Version: "test",
		},
		Database: config.DatabaseConfig{
			Driver: config.DatabaseDriverSQLite,
			URL:    sqlite.InMemory,
		},
		Log: config.LogConfig{Format: config.LogFormatTint, Level: config.LogLevelError},
	}
	s, state, err := bootstrap.Full(ctx, cfg)
	require.Nil(t, err)
	t.Cleanup(func() { state.Close(ctx) })

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/persons", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "test", recorder.Header().Get("X-App-Version"))
	assert.NotEmpty(t, recorder.Header().Get("Last-Modified"))

	recorder = httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestFullUnknownDriver(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "oracle"},
		Log:      config.LogConfig{Format: config.LogFormatJSON},
	}
	_, _, err := bootstrap.Full(context.Background(), cfg)
	assert.NotNil(t, err)
}

func TestCreateLogger(t *testing.T) {
	for _, format := range []config.LogFormat{config.LogFormatJSON, config.LogFormatPlaintext, config.LogFormatTint} {
		var buffer bytes.Buffer
		logger := bootstrap.CreateLogger(&config.Config{Log: config.LogConfig{Format: format}}, &buffer)
		logger.Info("hello")
		assert.Contains(t, buffer.String(), "hello", format)
	}
}
