package permissions

import (
	"log/slog"
	"maps"
	"slices"
)

type (
	Permission string
)

func (p Permission) String() string {
	return string(p)
}

type PermissionGroupID = int

// PermissionGroup is a named set of permissions, users receive permissions by being part of one or more groups.
// The predefined groups are used as roles (Admin, Moderator, User).
type PermissionGroup struct {
	ID          PermissionGroupID
	Name        string
	Permissions map[Permission]bool
}

func (pg *PermissionGroup) Get(permission Permission) bool {
	value, ok := pg.Permissions[permission]
	if !ok {
		slog.Debug("Unknown permission requested", "permission", permission)
	}
	return value
}

// Enabled returns the names of the enabled permissions in alphabetical order.
func (pg *PermissionGroup) Enabled() []string {
	result := make([]string, 0, len(pg.Permissions))
	for _, p := range slices.Sorted(maps.Keys(pg.Permissions)) {
		if pg.Permissions[p] {
			result = append(result, p.String())
		}
	}
	return result
}

// Combine returns all permissions that are enabled in at least one of the specified groups.
func Combine(groups []PermissionGroup) map[Permission]bool {
	combined := make(map[Permission]bool)
	for _, group := range groups {
		for perm, enabled := range group.Permissions {
			combined[perm] = combined[perm] || enabled
		}
	}
	return combined
}
