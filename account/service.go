// Package account manages the local user accounts: registration, password verification and
// role assignment.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/dto"
	"github.com/prior-it/crud/permissions"
	"golang.org/x/crypto/bcrypt"
)

const welcomeMessage = `Hi %s,

Your account has been created, you can now log in with %s.`

type Service struct {
	users       core.UserRepository
	permissions permissions.Service
	email       core.EmailService
	logger      *slog.Logger
}

// NewService creates a new account service. The e-mail service is optional, if it is nil no welcome
// mails are sent.
func NewService(
	users core.UserRepository,
	permissionService permissions.Service,
	email core.EmailService,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:       users,
		permissions: permissionService,
		email:       email,
		logger:      logger,
	}
}

// CreateUser registers a new user and adds them to the specified roles.
// If the e-mail address is already in use, this returns core.ErrConflict.
func (s *Service) CreateUser(
	ctx context.Context,
	registration *dto.Registration,
	roles ...string,
) (*core.User, error) {
	if registration == nil {
		return nil, core.InvalidArgument("registration cannot be empty")
	}
	if err := dto.Validate(registration); err != nil {
		return nil, err
	}
	email, err := core.ParseEmailAddress(registration.Email)
	if err != nil {
		return nil, errors.Join(core.ErrInvalidArgument, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("cannot hash password: %w", err)
	}
	return s.create(ctx, core.UserCreateData{
		PersonName:   registration.Name,
		Email:        email,
		Phone:        registration.Phone,
		PasswordHash: hash,
	}, roles)
}

func (s *Service) create(ctx context.Context, data core.UserCreateData, roles []string) (*core.User, error) {
	user, err := s.users.CreateUser(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("cannot create user %q: %w", data.Email, err)
	}
	s.logger.Info("User created", "id", user.ID)

	for _, role := range roles {
		if err := s.AssignRole(ctx, user.ID, role); err != nil {
			return nil, err
		}
	}

	if s.email != nil {
		err := s.email.SendEmail(
			ctx,
			data.Email,
			"Welcome",
			fmt.Sprintf(welcomeMessage, displayName(user), data.Email),
		)
		if err != nil {
			s.logger.Warn("Could not send welcome e-mail", "user", user.ID, "error", err)
		}
	}
	return user, nil
}

// VerifyPassword returns the user that belongs to the credentials.
// Unknown e-mail addresses and wrong passwords both return core.ErrInvalidCredentials.
func (s *Service) VerifyPassword(
	ctx context.Context,
	credentials *dto.Credentials,
) (*core.User, error) {
	if credentials == nil {
		return nil, core.ErrInvalidCredentials
	}
	email, err := core.ParseEmailAddress(credentials.Email)
	if err != nil {
		return nil, core.ErrInvalidCredentials
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrUserDoesNotExist) {
		return nil, core.ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("cannot get user %q: %w", email, err)
	}
	hash, err := s.users.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("cannot get password of user %v: %w", user.ID, err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(credentials.Password)); err != nil {
		s.logger.Debug("Wrong password", "user", user.ID)
		return nil, core.ErrInvalidCredentials
	}
	return user, nil
}

// AssignRole adds the user to the permission group with the specified name.
// Returns core.ErrNotFound if the role does not exist.
func (s *Service) AssignRole(ctx context.Context, id core.UserID, role string) error {
	group, err := s.permissions.GetPermissionGroupByName(ctx, role)
	if err != nil {
		return fmt.Errorf("cannot get role %q: %w", role, err)
	}
	if err := s.permissions.AddUserToPermissionGroup(ctx, id, group.ID); err != nil {
		return fmt.Errorf("cannot add user %v to role %q: %w", id, role, err)
	}
	if role == permissions.RoleAdmin {
		if err := s.users.UpdateUserAdmin(ctx, id, true); err != nil {
			return fmt.Errorf("cannot make user %v admin: %w", id, err)
		}
	}
	return nil
}

// IsEmailRegistered returns true if a user exists with the specified e-mail address.
// Invalid e-mail addresses return core.ErrInvalidArgument.
func (s *Service) IsEmailRegistered(ctx context.Context, address string) (bool, error) {
	email, err := core.ParseEmailAddress(address)
	if err != nil {
		return false, errors.Join(core.ErrInvalidArgument, err)
	}
	_, err = s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrUserDoesNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("cannot get user %q: %w", email, err)
	}
	return true, nil
}

// GetUser returns the user with its permissions.
func (s *Service) GetUser(ctx context.Context, id core.UserID) (*dto.UserResponse, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	perms, err := s.permissions.GetUserPermissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get permissions of user %v: %w", id, err)
	}
	response := dto.ToUserResponse(*user)
	for _, p := range permissions.AllPermissions() {
		if perms[p] {
			response.Permissions = append(response.Permissions, p.String())
		}
	}
	return &response, nil
}

// HasPermission reports whether any of the roles of the user grants the permission.
func (s *Service) HasPermission(
	ctx context.Context,
	id core.UserID,
	permission permissions.Permission,
) (bool, error) {
	return s.permissions.HasAny(ctx, id, permission)
}

// CountUsers returns the amount of registered users.
func (s *Service) CountUsers(ctx context.Context) (uint64, error) {
	return s.users.GetAmountOfUsers(ctx)
}

func displayName(user *core.User) string {
	if user.PersonName != "" {
		return user.PersonName
	}
	return user.Email.String()
}
