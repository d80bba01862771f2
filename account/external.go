package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/prior-it/crud/core"
	"github.com/prior-it/crud/oauth"
	"github.com/prior-it/crud/permissions"
	"golang.org/x/crypto/bcrypt"
)

// ExternalLogin returns the user that has the e-mail address of the identity. If there is no such user, a new
// account is created with the User role and an unusable password.
// Identities without an e-mail address return core.ErrInvalidArgument.
func (s *Service) ExternalLogin(ctx context.Context, identity *oauth.Identity) (*core.User, error) {
	if identity == nil || identity.Email == "" {
		return nil, core.InvalidArgument("the provider did not share an e-mail address")
	}
	email, err := core.ParseEmailAddress(identity.Email)
	if err != nil {
		return nil, errors.Join(core.ErrInvalidArgument, err)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		s.logger.Info("External login", "user", user.ID, "provider", identity.Provider)
		return user, nil
	} else if !errors.Is(err, core.ErrUserDoesNotExist) {
		return nil, fmt.Errorf("cannot get user %q: %w", email, err)
	}

	secret := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("cannot generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("cannot hash password: %w", err)
	}
	return s.create(ctx, core.UserCreateData{
		PersonName:   identity.Name,
		Email:        email,
		PasswordHash: hash,
	}, []string{permissions.RoleUser})
}
