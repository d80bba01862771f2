package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/prior-it/crud/core"
)

const (
	// Persons
	PermViewPersons   Permission = "view_persons"
	PermEditPersons   Permission = "edit_persons"
	PermDeletePersons Permission = "delete_persons"
	PermExportPersons Permission = "export_persons"

	// Countries
	PermEditCountries Permission = "edit_countries"
)

// Keep this up-to-date based on the permissions above
var allPermissions = [...]Permission{
	PermViewPersons,
	PermEditPersons,
	PermDeletePersons,
	PermExportPersons,

	PermEditCountries,
}

func AllPermissions() []Permission {
	return allPermissions[:]
}

const (
	RoleAdmin     = "Admin"
	RoleModerator = "Moderator"
	RoleUser      = "User"
)

// IsPredefinedRole returns true for the roles that are created on startup, they cannot be renamed or deleted.
func IsPredefinedRole(name string) bool {
	return name == RoleAdmin || name == RoleModerator || name == RoleUser
}

// PredefinedRoles returns the permission groups that are created when the application is first started.
func PredefinedRoles() []PermissionGroup {
	admin := make(map[Permission]bool, len(allPermissions))
	for _, p := range allPermissions {
		admin[p] = true
	}
	return []PermissionGroup{
		{Name: RoleAdmin, Permissions: admin},
		{Name: RoleModerator, Permissions: map[Permission]bool{
			PermViewPersons:   true,
			PermEditPersons:   true,
			PermExportPersons: true,
		}},
		{Name: RoleUser, Permissions: map[Permission]bool{
			PermViewPersons:   true,
			PermExportPersons: true,
		}},
	}
}

func RegisterPermissions(ctx context.Context, service Service) error {
	for _, p := range allPermissions {
		err := service.RegisterPermission(ctx, p)
		if err != nil {
			return err
		}
	}
	return nil
}

// EnsureRoles creates every predefined role that does not exist yet. Existing roles are left untouched.
func EnsureRoles(ctx context.Context, service Service) error {
	for _, role := range PredefinedRoles() {
		_, err := service.GetPermissionGroupByName(ctx, role.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("cannot look up role %q: %w", role.Name, err)
		}
		if _, err := service.CreatePermissionGroup(ctx, &role); err != nil {
			return fmt.Errorf("cannot create role %q: %w", role.Name, err)
		}
	}
	return nil
}
