package account_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prior-it/crud/account"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/oauth"
	"github.com/prior-it/crud/permissions"
	"github.com/prior-it/crud/sqlite"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const password = "Password1!"

func newService(t *testing.T, email core.EmailService) *account.Service {
	t.Helper()
	db := tests.SQLite(t)
	perms := sqlite.NewPermissionService(db)
	ctx := context.Background()
	require.Nil(t, permissions.RegisterPermissions(ctx, perms))
	require.Nil(t, permissions.EnsureRoles(ctx, perms))
	return account.NewService(sqlite.NewUserRepository(db), perms, email, tests.Logger)
}

func registration() *dto.Registration {
	return &dto.Registration{
		Name:     tests.Faker.Name(),
		Email:    tests.Email().String(),
		Password: password,
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("ok: user is created with its roles", func(t *testing.T) {
		service := newService(t, nil)
		user, err := service.CreateUser(ctx, registration(), permissions.RoleUser)
		require.Nil(t, err)

		profile, err := service.GetUser(ctx, user.ID)
		require.Nil(t, err)
		assert.False(t, profile.Admin)
		assert.ElementsMatch(t, []string{
			permissions.PermViewPersons.String(),
			permissions.PermExportPersons.String(),
		}, profile.Permissions)

		allowed, err := service.HasPermission(ctx, user.ID, permissions.PermEditPersons)
		require.Nil(t, err)
		assert.False(t, allowed)
	})

	t.Run("ok: admin role sets the admin flag", func(t *testing.T) {
		service := newService(t, nil)
		user, err := service.CreateUser(ctx, registration(), permissions.RoleUser, permissions.RoleAdmin)
		require.Nil(t, err)

		profile, err := service.GetUser(ctx, user.ID)
		require.Nil(t, err)
		assert.True(t, profile.Admin)
		assert.Len(t, profile.Permissions, len(permissions.AllPermissions()))
	})

	t.Run("ok: welcome mail is sent", func(t *testing.T) {
		email := &tests.EmailService{}
		email.On("SendEmail", ctx, mock.Anything, "Welcome", mock.Anything).Return(nil).Once()
		service := newService(t, email)

		_, err := service.CreateUser(ctx, registration())
		require.Nil(t, err)
		email.AssertExpectations(t)
	})

	t.Run("ok: failing welcome mail does not fail the registration", func(t *testing.T) {
		email := &tests.EmailService{}
		email.On("SendEmail", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp is down"))
		service := newService(t, email)

		_, err := service.CreateUser(ctx, registration())
		assert.Nil(t, err)
	})

	t.Run("err: duplicate e-mail address", func(t *testing.T) {
		service := newService(t, nil)
		data := registration()
		_, err := service.CreateUser(ctx, data)
		require.Nil(t, err)

		_, err = service.CreateUser(ctx, data)
		assert.ErrorIs(t, err, core.ErrConflict)
	})

	t.Run("err: weak password", func(t *testing.T) {
		service := newService(t, nil)
		data := registration()
		data.Password = "password"
		_, err := service.CreateUser(ctx, data)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("err: unknown role", func(t *testing.T) {
		service := newService(t, nil)
		_, err := service.CreateUser(ctx, registration(), "Astronaut")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("err: nil registration", func(t *testing.T) {
		service := newService(t, nil)
		_, err := service.CreateUser(ctx, nil)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestVerifyPassword(t *testing.T) {
	ctx := context.Background()
	service := newService(t, nil)
	data := registration()
	user, err := service.CreateUser(ctx, data)
	require.Nil(t, err)

	t.Run("ok: correct password", func(t *testing.T) {
		found, err := service.VerifyPassword(ctx, &dto.Credentials{Email: data.Email, Password: password})
		require.Nil(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("ok: e-mail address is case-insensitive", func(t *testing.T) {
		credentials := &dto.Credentials{Email: strings.ToUpper(data.Email), Password: password}
		found, err := service.VerifyPassword(ctx, credentials)
		require.Nil(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("err: wrong password", func(t *testing.T) {
		_, err := service.VerifyPassword(ctx, &dto.Credentials{Email: data.Email, Password: "Password2!"})
		assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	})

	t.Run("err: unknown user", func(t *testing.T) {
		_, err := service.VerifyPassword(ctx, &dto.Credentials{Email: tests.Email().String(), Password: password})
		assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	})
}

func TestIsEmailRegistered(t *testing.T) {
	ctx := context.Background()
	service := newService(t, nil)
	data := registration()
	_, err := service.CreateUser(ctx, data)
	require.Nil(t, err)

	registered, err := service.IsEmailRegistered(ctx, data.Email)
	require.Nil(t, err)
	assert.True(t, registered)

	registered, err = service.IsEmailRegistered(ctx, tests.Email().String())
	require.Nil(t, err)
	assert.False(t, registered)

	_, err = service.IsEmailRegistered(ctx, "not an e-mail")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	count, err := service.CountUsers(ctx)
	require.Nil(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestExternalLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("ok: new identity gets an account with the user role", func(t *testing.T) {
		service := newService(t, nil)
		identity := &oauth.Identity{
			Name:       "The Octocat",
			Email:      "octocat@github.com",
			Provider:   oauth.ProviderGithub,
			ProviderID: "1",
		}
		user, err := service.ExternalLogin(ctx, identity)
		require.Nil(t, err)
		assert.Equal(t, "The Octocat", user.PersonName)

		profile, err := service.GetUser(ctx, user.ID)
		require.Nil(t, err)
		assert.ElementsMatch(t, []string{
			permissions.PermViewPersons.String(),
			permissions.PermExportPersons.String(),
		}, profile.Permissions)

		again, err := service.ExternalLogin(ctx, identity)
		require.Nil(t, err)
		assert.Equal(t, user.ID, again.ID)
	})

	t.Run("ok: existing account is reused", func(t *testing.T) {
		service := newService(t, nil)
		data := registration()
		user, err := service.CreateUser(ctx, data, permissions.RoleUser)
		require.Nil(t, err)

		found, err := service.ExternalLogin(ctx, &oauth.Identity{Email: data.Email, Provider: oauth.ProviderEntraID})
		require.Nil(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = service.VerifyPassword(ctx, &dto.Credentials{Email: data.Email, Password: password})
		assert.Nil(t, err, "The local password keeps working")
	})

	t.Run("err: identity without e-mail address", func(t *testing.T) {
		service := newService(t, nil)
		_, err := service.ExternalLogin(ctx, &oauth.Identity{Name: "Nobody", ProviderID: "2"})
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
		_, err = service.ExternalLogin(ctx, nil)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}
