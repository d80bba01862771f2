package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/permissions"
)

func NewPermissionService(DB *DB) *PermissionService {
	return &PermissionService{db: DB}
}

// Sqlite implementation of the permissions.Service interface.
type PermissionService struct {
	db *DB
}

// Force struct to implement the interface
var _ permissions.Service = &PermissionService{}

// RegisterPermission implements permissions.Service.
// Existing permission groups receive the new permission in a disabled state.
func (p *PermissionService) RegisterPermission(
	ctx context.Context,
	permission permissions.Permission,
) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not create transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // See tx.Rollback() documentation

	_, err = tx.ExecContext(
		ctx,
		"INSERT OR IGNORE INTO permissions (permission) VALUES (?)",
		permission.String(),
	)
	if err != nil {
		return fmt.Errorf("could not register permission %q: %w", permission, convertSqliteError(err))
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO permission_group_permissions (group_id, permission, enabled)
		SELECT id, ?, 0 FROM permission_groups`,
		permission.String(),
	)
	if err != nil {
		return fmt.Errorf("could not add permission %q to existing groups: %w", permission, err)
	}
	return tx.Commit()
}

// ListPermissions implements permissions.Service.
func (p *PermissionService) ListPermissions(ctx context.Context) ([]permissions.Permission, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT permission FROM permissions ORDER BY permission")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]permissions.Permission, 0)
	for rows.Next() {
		var permission string
		if err := rows.Scan(&permission); err != nil {
			return nil, err
		}
		list = append(list, permissions.Permission(permission))
	}
	return list, rows.Err()
}

// CreatePermissionGroup implements permissions.Service.
// The new group contains every registered permission, permissions that are not enabled in the group are disabled.
func (p *PermissionService) CreatePermissionGroup(
	ctx context.Context,
	Group *permissions.PermissionGroup,
) (*permissions.PermissionGroup, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // See tx.Rollback() documentation

	result, err := tx.ExecContext(ctx, "INSERT INTO permission_groups (name) VALUES (?)", Group.Name)
	if err != nil {
		return nil, fmt.Errorf("could not create the new permission group: %w", convertSqliteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get the id of the new permission group: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO permission_group_permissions (group_id, permission, enabled)
		SELECT ?, permission, 0 FROM permissions`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("could not add permissions to the new permission group: %w", err)
	}
	if err := updatePermissions(ctx, tx, int(id), Group.Permissions); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	Group.ID = int(id)
	return Group, nil
}

// ListPermissionGroups implements permissions.Service.
func (p *PermissionService) ListPermissionGroups(
	ctx context.Context,
) ([]permissions.PermissionGroup, error) {
	groups, err := p.queryGroups(ctx, "SELECT id, name FROM permission_groups ORDER BY id")
	if err != nil {
		return nil, err
	}
	return p.withPermissions(ctx, groups)
}

// ListPermissionGroupsForUser implements permissions.Service.
func (p *PermissionService) ListPermissionGroupsForUser(
	ctx context.Context,
	UserID core.UserID,
) ([]permissions.PermissionGroup, error) {
	groups, err := p.queryGroups(
		ctx,
		`SELECT g.id, g.name FROM permission_groups g
		JOIN permission_group_users u ON u.group_id = g.id
		WHERE u.user_id = ?
		ORDER BY g.id`,
		UserID,
	)
	if err != nil {
		return nil, err
	}
	return p.withPermissions(ctx, groups)
}

// GetPermissionGroup implements permissions.Service.
func (p *PermissionService) GetPermissionGroup(
	ctx context.Context,
	ID permissions.PermissionGroupID,
) (*permissions.PermissionGroup, error) {
	row := p.db.QueryRowContext(ctx, "SELECT id, name FROM permission_groups WHERE id = ?", ID)
	return p.scanGroup(ctx, row)
}

// GetPermissionGroupByName implements permissions.Service.
func (p *PermissionService) GetPermissionGroupByName(
	ctx context.Context,
	Name string,
) (*permissions.PermissionGroup, error) {
	row := p.db.QueryRowContext(ctx, "SELECT id, name FROM permission_groups WHERE name = ?", Name)
	return p.scanGroup(ctx, row)
}

// HasAny implements permissions.Service.
func (p *PermissionService) HasAny(
	ctx context.Context,
	UserID core.UserID,
	permission permissions.Permission,
) (bool, error) {
	var result bool
	err := p.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM permission_group_permissions gp
			JOIN permission_group_users u ON u.group_id = gp.group_id
			WHERE u.user_id = ? AND gp.permission = ? AND gp.enabled
		)`,
		UserID,
		permission.String(),
	).Scan(&result)
	return result, err
}

// UpdatePermissionGroup implements permissions.Service.
func (p *PermissionService) UpdatePermissionGroup(
	ctx context.Context,
	Group *permissions.PermissionGroup,
) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not create transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // See tx.Rollback() documentation
	if Group.Name != "" {
		_, err = tx.ExecContext(ctx, "UPDATE permission_groups SET name = ? WHERE id = ?", Group.Name, Group.ID)
		if err != nil {
			return fmt.Errorf("could not rename permission group (id %v): %w", Group.ID, convertSqliteError(err))
		}
	}
	if err := updatePermissions(ctx, tx, Group.ID, Group.Permissions); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// DeletePermissionGroup implements permissions.Service.
func (p *PermissionService) DeletePermissionGroup(
	ctx context.Context,
	ID permissions.PermissionGroupID,
) error {
	_, err := p.db.ExecContext(ctx, "DELETE FROM permission_groups WHERE id = ?", ID)
	return err
}

// AddUserToPermissionGroup implements permissions.Service.
func (p *PermissionService) AddUserToPermissionGroup(
	ctx context.Context,
	UserID core.UserID,
	GroupID permissions.PermissionGroupID,
) error {
	_, err := p.db.ExecContext(
		ctx,
		"INSERT OR IGNORE INTO permission_group_users (group_id, user_id) VALUES (?, ?)",
		GroupID,
		UserID,
	)
	return convertSqliteError(err)
}

// GetUserPermissions implements permissions.Service.
func (p *PermissionService) GetUserPermissions(
	ctx context.Context,
	UserID core.UserID,
) (map[permissions.Permission]bool, error) {
	groups, err := p.ListPermissionGroupsForUser(ctx, UserID)
	if err != nil {
		return nil, err
	}
	return permissions.Combine(groups), nil
}

// queryGroups reads all groups before returning, so the connection is free again for the permission queries.
func (p *PermissionService) queryGroups(
	ctx context.Context,
	query string,
	args ...any,
) ([]permissions.PermissionGroup, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]permissions.PermissionGroup, 0)
	for rows.Next() {
		var group permissions.PermissionGroup
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (p *PermissionService) scanGroup(
	ctx context.Context,
	row *sql.Row,
) (*permissions.PermissionGroup, error) {
	var group permissions.PermissionGroup
	err := row.Scan(&group.ID, &group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	group.Permissions, err = p.getPermissionsForGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (p *PermissionService) withPermissions(
	ctx context.Context,
	groups []permissions.PermissionGroup,
) ([]permissions.PermissionGroup, error) {
	var err error
	for i := range groups {
		groups[i].Permissions, err = p.getPermissionsForGroup(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (p *PermissionService) getPermissionsForGroup(
	ctx context.Context,
	ID permissions.PermissionGroupID,
) (map[permissions.Permission]bool, error) {
	rows, err := p.db.QueryContext(
		ctx,
		"SELECT permission, enabled FROM permission_group_permissions WHERE group_id = ?",
		ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	Map := make(map[permissions.Permission]bool)
	for rows.Next() {
		var (
			permission string
			enabled    bool
		)
		if err := rows.Scan(&permission, &enabled); err != nil {
			return nil, err
		}
		Map[permissions.Permission(permission)] = enabled
	}
	return Map, rows.Err()
}

func updatePermissions(
	ctx context.Context,
	tx *sql.Tx,
	ID permissions.PermissionGroupID,
	perms map[permissions.Permission]bool,
) error {
	for permission, enabled := range perms {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO permission_group_permissions (group_id, permission, enabled) VALUES (?, ?, ?)
			ON CONFLICT (group_id, permission) DO UPDATE SET enabled = excluded.enabled`,
			ID,
			permission.String(),
			enabled,
		)
		if err != nil {
			return fmt.Errorf(
				"could not update permission %q in permission group (id %v): %w",
				permission.String(),
				ID,
				convertSqliteError(err),
			)
		}
	}
	return nil
}
