package dto

import "github.com/prior-it/crud/permissions"

type RoleRequest struct {
	Name string `json:"name" validate:"required,max=40" label:"Role Name"`
	// Names of the enabled permissions, every other permission is disabled
	Permissions []string `json:"permissions"`
}

type RoleAssignment struct {
	Role string `json:"role" validate:"required"`
}

type RoleResponse struct {
	ID          permissions.PermissionGroupID `json:"id"`
	Name        string                        `json:"name"`
	Permissions []string                      `json:"permissions"`
}

func ToRoleResponse(group permissions.PermissionGroup) RoleResponse {
	return RoleResponse{
		ID:          group.ID,
		Name:        group.Name,
		Permissions: group.Enabled(),
	}
}
