package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prior-it/crud/account"
	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
)

// SeedIdentity registers all permissions and creates the predefined roles that do not exist yet.
// If there are no users at all, the configured admin account is created with the User and Admin roles.
// It is safe to run on every start.
func SeedIdentity(
	ctx context.Context,
	accounts *account.Service,
	permissionService permissions.Service,
	admin config.AdminConfig,
	logger *slog.Logger,
) error {
	if err := permissions.RegisterPermissions(ctx, permissionService); err != nil {
		return fmt.Errorf("cannot register permissions: %w", err)
	}
	if err := permissions.EnsureRoles(ctx, permissionService); err != nil {
		return err
	}

	count, err := accounts.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("cannot count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	user, err := accounts.CreateUser(ctx, &dto.Registration{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: admin.Password,
	}, permissions.RoleUser, permissions.RoleAdmin)
	if err != nil {
		return fmt.Errorf("cannot create admin account: %w", err)
	}
	logger.Info("Admin account created", "id", user.ID, "email", user.Email.String())
	return nil
}
