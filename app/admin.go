package app

import (
	"net/http"
	"strconv"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
	"github.com/prior-it/crud/server"
)

func roleID(apollo *server.Apollo) (permissions.PermissionGroupID, error) {
	id, err := strconv.Atoi(apollo.GetPath("id"))
	if err != nil {
		return 0, core.InvalidArgument("invalid role id %q", apollo.GetPath("id"))
	}
	return id, nil
}

func ListUsers(apollo *server.Apollo, state *State) error {
	users, err := state.Accounts.ListUsers(apollo.Context())
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, users)
	return nil
}

func DeleteUser(apollo *server.Apollo, state *State) error {
	id, err := core.ParseUserID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	if err := state.Accounts.DeleteUser(apollo.Context(), id, apollo.User.ID); err != nil {
		return err
	}
	apollo.StatusCode(http.StatusNoContent)
	return nil
}

// AssignRole adds the user in the path to the role in the body.
// The user receives the new permissions on their next request.
func AssignRole(apollo *server.Apollo, state *State) error {
	id, err := core.ParseUserID(apollo.GetPath("id"))
	if err != nil {
		return core.InvalidArgument("%v", err)
	}
	var request dto.RoleAssignment
	if err := apollo.ParseBody(&request); err != nil {
		return err
	}
	if err := dto.Validate(request); err != nil {
		return err
	}
	if err := state.Accounts.AssignRole(apollo.Context(), id, request.Role); err != nil {
		return err
	}
	profile, err := state.Accounts.GetUser(apollo.Context(), id)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, profile)
	return nil
}

func ListRoles(apollo *server.Apollo, state *State) error {
	roles, err := state.Accounts.ListRoles(apollo.Context())
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, roles)
	return nil
}

func CreateRole(apollo *server.Apollo, state *State) error {
	var request dto.RoleRequest
	if err := apollo.ParseBody(&request); err != nil {
		return err
	}
	role, err := state.Accounts.CreateRole(apollo.Context(), &request)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusCreated, role)
	return nil
}

func UpdateRole(apollo *server.Apollo, state *State) error {
	id, err := roleID(apollo)
	if err != nil {
		return err
	}
	var request dto.RoleRequest
	if err := apollo.ParseBody(&request); err != nil {
		return err
	}
	role, err := state.Accounts.UpdateRole(apollo.Context(), id, &request)
	if err != nil {
		return err
	}
	apollo.JSON(http.StatusOK, role)
	return nil
}

func DeleteRole(apollo *server.Apollo, state *State) error {
	id, err := roleID(apollo)
	if err != nil {
		return err
	}
	if err := state.Accounts.DeleteRole(apollo.Context(), id); err != nil {
		return err
	}
	apollo.StatusCode(http.StatusNoContent)
	return nil
}
