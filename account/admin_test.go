package account_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	service := newService(t, nil)
	admin, err := service.CreateUser(ctx, registration(), permissions.RoleUser, permissions.RoleAdmin)
	require.Nil(t, err)
	user, err := service.CreateUser(ctx, registration(), permissions.RoleUser)
	require.Nil(t, err)

	t.Run("ok: list", func(t *testing.T) {
		list, err := service.ListUsers(ctx)
		require.Nil(t, err)
		require.Len(t, list, 2)
		ids := []uuid.UUID{list[0].ID, list[1].ID}
		assert.ElementsMatch(t, []uuid.UUID{admin.ID, user.ID}, ids)
	})

	t.Run("err: cannot delete yourself", func(t *testing.T) {
		err := service.DeleteUser(ctx, admin.ID, admin.ID)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("ok: delete", func(t *testing.T) {
		require.Nil(t, service.DeleteUser(ctx, user.ID, admin.ID))
		count, err := service.CountUsers(ctx)
		require.Nil(t, err)
		assert.Equal(t, uint64(1), count)

		err = service.DeleteUser(ctx, user.ID, admin.ID)
		assert.ErrorIs(t, err, core.ErrUserDoesNotExist)
	})
}

func TestRoles(t *testing.T) {
	ctx := context.Background()
	service := newService(t, nil)

	t.Run("ok: predefined roles are listed", func(t *testing.T) {
		roles, err := service.ListRoles(ctx)
		require.Nil(t, err)
		require.Len(t, roles, 3)
		for _, role := range roles {
			if role.Name == permissions.RoleUser {
				assert.Equal(t, []string{"export_persons", "view_persons"}, role.Permissions)
			}
		}
	})

	var created *dto.RoleResponse
	t.Run("ok: create, update and delete a role", func(t *testing.T) {
		var err error
		created, err = service.CreateRole(ctx, &dto.RoleRequest{
			Name:        "Editor",
			Permissions: []string{"edit_persons", "view_persons"},
		})
		require.Nil(t, err)
		assert.Equal(t, "Editor", created.Name)
		assert.Equal(t, []string{"edit_persons", "view_persons"}, created.Permissions)

		updated, err := service.UpdateRole(ctx, created.ID, &dto.RoleRequest{
			Name:        "Country editor",
			Permissions: []string{"edit_countries"},
		})
		require.Nil(t, err)
		assert.Equal(t, "Country editor", updated.Name)
		assert.Equal(t, []string{"edit_countries"}, updated.Permissions)

		user, err := service.CreateUser(ctx, registration(), updated.Name)
		require.Nil(t, err)
		allowed, err := service.HasPermission(ctx, user.ID, permissions.PermEditCountries)
		require.Nil(t, err)
		assert.True(t, allowed)

		require.Nil(t, service.DeleteRole(ctx, created.ID))
		allowed, err = service.HasPermission(ctx, user.ID, permissions.PermEditCountries)
		require.Nil(t, err)
		assert.False(t, allowed)
	})

	t.Run("err: duplicate name", func(t *testing.T) {
		_, err := service.CreateRole(ctx, &dto.RoleRequest{Name: permissions.RoleModerator})
		assert.ErrorIs(t, err, core.ErrConflict)
	})

	t.Run("err: unknown permission", func(t *testing.T) {
		_, err := service.CreateRole(ctx, &dto.RoleRequest{Name: "Shoes", Permissions: []string{"buy_shoes"}})
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("err: predefined roles cannot be renamed or deleted", func(t *testing.T) {
		roles, err := service.ListRoles(ctx)
		require.Nil(t, err)
		for _, role := range roles {
			_, err := service.UpdateRole(ctx, role.ID, &dto.RoleRequest{Name: role.Name + "s"})
			assert.ErrorIs(t, err, core.ErrInvalidArgument)
			assert.ErrorIs(t, service.DeleteRole(ctx, role.ID), core.ErrInvalidArgument)
		}
	})

	t.Run("ok: permissions of a predefined role can change", func(t *testing.T) {
		group, err := service.ListRoles(ctx)
		require.Nil(t, err)
		var moderator dto.RoleResponse
		for _, role := range group {
			if role.Name == permissions.RoleModerator {
				moderator = role
			}
		}
		updated, err := service.UpdateRole(ctx, moderator.ID, &dto.RoleRequest{
			Name:        permissions.RoleModerator,
			Permissions: append(moderator.Permissions, "delete_persons"),
		})
		require.Nil(t, err)
		assert.Contains(t, updated.Permissions, "delete_persons")
	})

	t.Run("err: unknown role", func(t *testing.T) {
		err := service.DeleteRole(ctx, 4242)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
