package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
)

// ListUsers returns all users without their permissions, oldest account first.
func (s *Service) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list users: %w", err)
	}
	result := make([]dto.UserResponse, len(users))
	for i, user := range users {
		result[i] = dto.ToUserResponse(user)
	}
	return result, nil
}

// DeleteUser removes the account and its role memberships. Users cannot delete their own account.
func (s *Service) DeleteUser(ctx context.Context, id core.UserID, current core.UserID) error {
	if id == current {
		return core.InvalidArgument("you cannot delete your own account")
	}
	if _, err := s.users.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("cannot delete user %v: %w", id, err)
	}
	s.logger.Info("User deleted", "id", id)
	return nil
}

func (s *Service) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	groups, err := s.permissions.ListPermissionGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list roles: %w", err)
	}
	result := make([]dto.RoleResponse, len(groups))
	for i, group := range groups {
		result[i] = dto.ToRoleResponse(group)
	}
	return result, nil
}

// CreateRole adds a new role. If a role with the same name exists, this returns core.ErrConflict.
func (s *Service) CreateRole(ctx context.Context, request *dto.RoleRequest) (*dto.RoleResponse, error) {
	if request == nil {
		return nil, core.InvalidArgument("role request cannot be empty")
	}
	if err := dto.Validate(request); err != nil {
		return nil, err
	}
	perms, err := s.permissionMap(ctx, request.Permissions)
	if err != nil {
		return nil, err
	}
	group, err := s.permissions.CreatePermissionGroup(ctx, &permissions.PermissionGroup{
		Name:        request.Name,
		Permissions: perms,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create role %q: %w", request.Name, err)
	}
	response := dto.ToRoleResponse(*group)
	return &response, nil
}

// UpdateRole replaces the name and the permissions of a role. Predefined roles keep their name.
func (s *Service) UpdateRole(
	ctx context.Context,
	id permissions.PermissionGroupID,
	request *dto.RoleRequest,
) (*dto.RoleResponse, error) {
	if request == nil {
		return nil, core.InvalidArgument("role request cannot be empty")
	}
	if err := dto.Validate(request); err != nil {
		return nil, err
	}
	group, err := s.permissions.GetPermissionGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if permissions.IsPredefinedRole(group.Name) && group.Name != request.Name {
		return nil, core.InvalidArgument("role %q cannot be renamed", group.Name)
	}
	perms, err := s.permissionMap(ctx, request.Permissions)
	if err != nil {
		return nil, err
	}
	group.Name = request.Name
	group.Permissions = perms
	if err := s.permissions.UpdatePermissionGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("cannot update role %v: %w", id, err)
	}
	updated, err := s.permissions.GetPermissionGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	response := dto.ToRoleResponse(*updated)
	return &response, nil
}

func (s *Service) DeleteRole(ctx context.Context, id permissions.PermissionGroupID) error {
	group, err := s.permissions.GetPermissionGroup(ctx, id)
	if err != nil {
		return err
	}
	if permissions.IsPredefinedRole(group.Name) {
		return core.InvalidArgument("role %q cannot be deleted", group.Name)
	}
	if err := s.permissions.DeletePermissionGroup(ctx, id); err != nil {
		return fmt.Errorf("cannot delete role %v: %w", id, err)
	}
	return nil
}

// Every registered permission is present in the result, only the specified ones are enabled.
func (s *Service) permissionMap(ctx context.Context, enabled []string) (map[permissions.Permission]bool, error) {
	registered, err := s.permissions.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list permissions: %w", err)
	}
	result := make(map[permissions.Permission]bool, len(registered))
	for _, p := range registered {
		result[p] = false
	}
	var errs []error
	for _, name := range enabled {
		p := permissions.Permission(name)
		if _, ok := result[p]; !ok {
			errs = append(errs, fmt.Errorf("unknown permission %q", name))
			continue
		}
		result[p] = true
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{core.ErrInvalidArgument}, errs...)...)
	}
	return result, nil
}
