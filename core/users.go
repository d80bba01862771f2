package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         UserID
	PersonName string
	Email      EmailAddress
	Phone      string
	Admin      bool
	Joined     time.Time
}

type UserID = uuid.UUID

// ParseUserID parses a string into a user id.
func ParseUserID(id string) (UserID, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cannot parse user id: %w", err)
	}
	return userID, nil
}

type UserCreateData struct {
	PersonName   string
	Email        EmailAddress
	Phone        string
	PasswordHash []byte
}

type UserRepository interface {
	// Create a new user. If the e-mail address is already in use, this returns ErrConflict.
	CreateUser(ctx context.Context, data UserCreateData) (*User, error)
	// Retrieve the user with the specified id or ErrUserDoesNotExist if no such user exists.
	GetUser(ctx context.Context, id UserID) (*User, error)
	// Retrieve the user with the specified e-mail address or ErrUserDoesNotExist if no such user exists.
	GetUserByEmail(ctx context.Context, email EmailAddress) (*User, error)
	// Retrieve the password hash of the specified user or ErrUserDoesNotExist if no such user exists.
	GetPasswordHash(ctx context.Context, id UserID) ([]byte, error)
	// Retrieve all existing users.
	ListUsers(ctx context.Context) ([]User, error)
	// Retrieve the amount of existing users.
	GetAmountOfUsers(ctx context.Context) (uint64, error)
	// Set or unset the admin flag of the specified user.
	UpdateUserAdmin(ctx context.Context, id UserID, admin bool) error
	// Delete the user with the specified id.
	DeleteUser(ctx context.Context, id UserID) error
}
