package permissions

import (
	"context"

	"github.com/prior-it/crud/core"
)

type Service interface {
	// Store a new permission, if it doesn't already exist
	RegisterPermission(ctx context.Context, permission Permission) error
	// Lists all permissions that have been registered before
	ListPermissions(ctx context.Context) ([]Permission, error)
	// Return a permission group by its ID.
	// If the group does not exist, this returns core.ErrNotFound
	GetPermissionGroup(ctx context.Context, id PermissionGroupID) (*PermissionGroup, error)
	// Return a permission group by its name.
	// If the group does not exist, this returns core.ErrNotFound
	GetPermissionGroupByName(ctx context.Context, name string) (*PermissionGroup, error)
	// Update a permission group
	UpdatePermissionGroup(ctx context.Context, group *PermissionGroup) error
	// Delete a permission group
	DeletePermissionGroup(ctx context.Context, id PermissionGroupID) error
	// Create a new permission group, the returned group will contain the generated id.
	// If another group with the same name already exists, this will return core.ErrConflict.
	CreatePermissionGroup(ctx context.Context, group *PermissionGroup) (*PermissionGroup, error)
	// Returns whether or not the specified user has the specified permission in any of its permission groups.
	HasAny(ctx context.Context, userID core.UserID, permission Permission) (bool, error)
	// Lists all permission groups in the system
	ListPermissionGroups(ctx context.Context) ([]PermissionGroup, error)
	// Lists all permission groups for the specified user
	ListPermissionGroupsForUser(ctx context.Context, userID core.UserID) ([]PermissionGroup, error)
	// Add an existing user to an existing permission group
	AddUserToPermissionGroup(
		ctx context.Context,
		userID core.UserID,
		groupID PermissionGroupID,
	) error
	// Return the combined permissions for the specified user.
	// If a user has multiple permission groups, the combined permission group will contain all permissions that are
	// enabled in at least one of their permission groups.
	GetUserPermissions(
		ctx context.Context,
		userID core.UserID,
	) (map[Permission]bool, error)
}
