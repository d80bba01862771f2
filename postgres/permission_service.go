package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/permissions"
)

func NewPermissionService(DB *DB) *PermissionService {
	return &PermissionService{db: DB}
}

// Postgres implementation of the permissions.Service interface.
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
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not create transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // See tx.Rollback() documentation

	_, err = tx.Exec(
		ctx,
		"INSERT INTO permissions (permission) VALUES ($1) ON CONFLICT DO NOTHING",
		permission.String(),
	)
	if err != nil {
		return fmt.Errorf("could not register permission %q: %w", permission, convertPgError(err))
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO permission_group_permissions (group_id, permission, enabled)
		SELECT id, $1, false FROM permission_groups
		ON CONFLICT DO NOTHING`,
		permission.String(),
	)
	if err != nil {
		return fmt.Errorf("could not add permission %q to existing groups: %w", permission, err)
	}
	return tx.Commit(ctx)
}

// ListPermissions implements permissions.Service.
func (p *PermissionService) ListPermissions(ctx context.Context) ([]permissions.Permission, error) {
	rows, err := p.db.Query(ctx, "SELECT permission FROM permissions ORDER BY permission")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (permissions.Permission, error) {
		var permission string
		err := row.Scan(&permission)
		return permissions.Permission(permission), err
	})
}

// CreatePermissionGroup implements permissions.Service.
// The new group contains every registered permission, permissions that are not enabled in the group are disabled.
func (p *PermissionService) CreatePermissionGroup(
	ctx context.Context,
	Group *permissions.PermissionGroup,
) (*permissions.PermissionGroup, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // See tx.Rollback() documentation

	var id int32
	err = tx.QueryRow(ctx, "INSERT INTO permission_groups (name) VALUES ($1) RETURNING id", Group.Name).
		Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("could not create the new permission group: %w", convertPgError(err))
	}

	_, err = tx.Exec(
		ctx,
		`INSERT INTO permission_group_permissions (group_id, permission, enabled)
		SELECT $1, permission, false FROM permissions`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("could not add permissions to the new permission group: %w", err)
	}
	if err := updatePermissions(ctx, tx, int(id), Group.Permissions); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	Group.ID = int(id)
	return Group, nil
}

// ListPermissionGroups implements permissions.Service.
func (p *PermissionService) ListPermissionGroups(
	ctx context.Context,
) ([]permissions.PermissionGroup, error) {
	rows, err := p.db.Query(ctx, "SELECT id, name FROM permission_groups ORDER BY id")
	if err != nil {
		return nil, err
	}
	return p.withPermissions(ctx, rows)
}

// ListPermissionGroupsForUser implements permissions.Service.
func (p *PermissionService) ListPermissionGroupsForUser(
	ctx context.Context,
	UserID core.UserID,
) ([]permissions.PermissionGroup, error) {
	rows, err := p.db.Query(
		ctx,
		`SELECT g.id, g.name FROM permission_groups g
		JOIN permission_group_users u ON u.group_id = g.id
		WHERE u.user_id = $1
		ORDER BY g.id`,
		UserID,
	)
	if err != nil {
		return nil, err
	}
	return p.withPermissions(ctx, rows)
}

// GetPermissionGroup implements permissions.Service.
func (p *PermissionService) GetPermissionGroup(
	ctx context.Context,
	ID permissions.PermissionGroupID,
) (*permissions.PermissionGroup, error) {
	rows, _ := p.db.Query(ctx, "SELECT id, name FROM permission_groups WHERE id = $1", ID)
	return p.collectGroup(ctx, rows)
}

// GetPermissionGroupByName implements permissions.Service.
func (p *PermissionService) GetPermissionGroupByName(
	ctx context.Context,
	Name string,
) (*permissions.PermissionGroup, error) {
	rows, _ := p.db.Query(ctx, "SELECT id, name FROM permission_groups WHERE name = $1", Name)
	return p.collectGroup(ctx, rows)
}

// HasAny implements permissions.Service.
func (p *PermissionService) HasAny(
	ctx context.Context,
	UserID core.UserID,
	permission permissions.Permission,
) (bool, error) {
	var result bool
	err := p.db.QueryRow(
		ctx,
		`SELECT EXISTS (
			SELECT 1 FROM permission_group_permissions gp
			JOIN permission_group_users u ON u.group_id = gp.group_id
			WHERE u.user_id = $1 AND gp.permission = $2 AND gp.enabled
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
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not create transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // See tx.Rollback() documentation
	if Group.Name != "" {
		_, err = tx.Exec(ctx, "UPDATE permission_groups SET name = $2 WHERE id = $1", Group.ID, Group.Name)
		if err != nil {
			return fmt.Errorf("could not rename permission group (id %v): %w", Group.ID, convertPgError(err))
		}
	}
	if err := updatePermissions(ctx, tx, Group.ID, Group.Permissions); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// DeletePermissionGroup implements permissions.Service.
func (p *PermissionService) DeletePermissionGroup(
	ctx context.Context,
	ID permissions.PermissionGroupID,
) error {
	_, err := p.db.Exec(ctx, "DELETE FROM permission_groups WHERE id = $1", ID)
	return err
}

// AddUserToPermissionGroup implements permissions.Service.
func (p *PermissionService) AddUserToPermissionGroup(
	ctx context.Context,
	UserID core.UserID,
	GroupID permissions.PermissionGroupID,
) error {
	_, err := p.db.Exec(
		ctx,
		"INSERT INTO permission_group_users (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		GroupID,
		UserID,
	)
	return convertPgError(err)
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

func (p *PermissionService) collectGroup(
	ctx context.Context,
	rows pgx.Rows,
) (*permissions.PermissionGroup, error) {
	group, err := pgx.CollectExactlyOneRow(rows, scanPermissionGroup)
	if errors.Is(err, pgx.ErrNoRows) {
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
	rows pgx.Rows,
) ([]permissions.PermissionGroup, error) {
	groups, err := pgx.CollectRows(rows, scanPermissionGroup)
	if err != nil {
		return nil, err
	}
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
	rows, err := p.db.Query(
		ctx,
		"SELECT permission, enabled FROM permission_group_permissions WHERE group_id = $1",
		ID,
	)
	if err != nil {
		return nil, err
	}
	Map := make(map[permissions.Permission]bool)
	var (
		permission string
		enabled    bool
	)
	_, err = pgx.ForEachRow(rows, []any{&permission, &enabled}, func() error {
		Map[permissions.Permission(permission)] = enabled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Map, nil
}

func updatePermissions(
	ctx context.Context,
	tx pgx.Tx,
	ID permissions.PermissionGroupID,
	perms map[permissions.Permission]bool,
) error {
	for permission, enabled := range perms {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO permission_group_permissions (group_id, permission, enabled) VALUES ($1, $2, $3)
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
				convertPgError(err),
			)
		}
	}
	return nil
}

func scanPermissionGroup(row pgx.CollectableRow) (permissions.PermissionGroup, error) {
	var group permissions.PermissionGroup
	err := row.Scan(&group.ID, &group.Name)
	return group, err
}
