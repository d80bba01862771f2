package app_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
	"github.com/prior-it/crud/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin(t *testing.T) {
	a := newApp(t)
	admin := a.createUser(t, permissions.RoleUser, permissions.RoleAdmin)
	user := a.createUser(t, permissions.RoleUser)

	t.Run("err: admins only", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, a.get("/admin/users").Code)
		assert.Equal(t, http.StatusForbidden, a.get("/admin/users", user...).Code)
		assert.Equal(t, http.StatusForbidden, a.get("/admin/roles", user...).Code)
	})

	var users []dto.UserResponse
	t.Run("ok: list users", func(t *testing.T) {
		response := a.get("/admin/users", admin...)
		require.Equal(t, http.StatusOK, response.Code)
		users = decode[[]dto.UserResponse](t, response)
		assert.Len(t, users, 2)
	})

	t.Run("ok: promote a user to moderator", func(t *testing.T) {
		var target dto.UserResponse
		for _, u := range users {
			if !u.Admin {
				target = u
			}
		}
		response := a.json(
			http.MethodPost,
			fmt.Sprintf("/admin/users/%s/roles", target.ID),
			dto.RoleAssignment{Role: permissions.RoleModerator},
			admin...,
		)
		require.Equal(t, http.StatusOK, response.Code, response.Body.String())
		assert.Contains(t, decode[dto.UserResponse](t, response).Permissions, "edit_persons")

		// The permissions are checked on every request, the session does not need to be renewed
		dob := dto.NewDate(now.AddDate(-20, 0, 0))
		response = a.json(http.MethodPost, "/persons", dto.PersonCreate{
			Name:        "Bob",
			Email:       "bob@x.com",
			DateOfBirth: &dob,
			Gender:      "Male",
			CountryID:   tests.SeedPalestine,
		}, user...)
		assert.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	})

	t.Run("err: unknown role", func(t *testing.T) {
		response := a.json(
			http.MethodPost,
			fmt.Sprintf("/admin/users/%s/roles", users[0].ID),
			dto.RoleAssignment{Role: "Astronaut"},
			admin...,
		)
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("ok: create, update and delete a role", func(t *testing.T) {
		response := a.json(http.MethodPost, "/admin/roles", dto.RoleRequest{
			Name:        "Exporter",
			Permissions: []string{"export_persons"},
		}, admin...)
		require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
		role := decode[dto.RoleResponse](t, response)

		response = a.json(http.MethodPut, fmt.Sprintf("/admin/roles/%d", role.ID), dto.RoleRequest{
			Name:        "Exporter",
			Permissions: []string{"export_persons", "view_persons"},
		}, admin...)
		require.Equal(t, http.StatusOK, response.Code, response.Body.String())
		assert.Equal(t, []string{"export_persons", "view_persons"}, decode[dto.RoleResponse](t, response).Permissions)

		roles := decode[[]dto.RoleResponse](t, a.get("/admin/roles", admin...))
		assert.Len(t, roles, 4)

		request := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/roles/%d", role.ID), nil)
		assert.Equal(t, http.StatusNoContent, a.do(request, admin...).Code)
		request = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/roles/%d", role.ID), nil)
		assert.Equal(t, http.StatusNotFound, a.do(request, admin...).Code)
	})

	t.Run("err: invalid role id", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodDelete, "/admin/roles/admin", nil)
		assert.Equal(t, http.StatusBadRequest, a.do(request, admin...).Code)
	})

	t.Run("ok: delete a user", func(t *testing.T) {
		for _, u := range users {
			request := httptest.NewRequest(http.MethodDelete, "/admin/users/"+u.ID.String(), nil)
			response := a.do(request, admin...)
			if u.Admin {
				assert.Equal(t, http.StatusBadRequest, response.Code, "admins cannot delete themselves")
			} else {
				assert.Equal(t, http.StatusNoContent, response.Code)
			}
		}
		assert.Len(t, decode[[]dto.UserResponse](t, a.get("/admin/users", admin...)), 1)
	})
}
