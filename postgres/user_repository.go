package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prior-it/crud/core"
)

const selectUsers = "SELECT id, name, email, phone, admin, joined FROM users "

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db}
}

// Postgres implementation of the core UserRepository interface.
type UserRepository struct {
	db *DB
}

// Force struct to implement the core interface
var _ core.UserRepository = &UserRepository{}

// CreateUser implements core.UserRepository.
func (u *UserRepository) CreateUser(
	ctx context.Context,
	data core.UserCreateData,
) (*core.User, error) {
	if data.Email == nil {
		return nil, errors.New("email cannot be nil")
	}
	user := core.User{
		ID:         uuid.New(),
		PersonName: data.PersonName,
		Email:      data.Email,
		Phone:      data.Phone,
		Joined:     time.Now().UTC(),
	}
	_, err := u.db.Exec(
		ctx,
		"INSERT INTO users (id, name, email, phone, password_hash, joined) VALUES ($1, $2, $3, $4, $5, $6)",
		user.ID,
		user.PersonName,
		user.Email.String(),
		user.Phone,
		data.PasswordHash,
		user.Joined,
	)
	if err != nil {
		return nil, convertPgError(err)
	}
	return &user, nil
}

// DeleteUser implements core.UserRepository.
func (u *UserRepository) DeleteUser(ctx context.Context, id core.UserID) error {
	_, err := u.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	return convertPgError(err)
}

// GetAmountOfUsers implements core.UserRepository.
func (u *UserRepository) GetAmountOfUsers(ctx context.Context) (uint64, error) {
	var amount int64
	err := u.db.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&amount)
	if err != nil {
		return 0, convertPgError(err)
	}
	return uint64(amount), nil
}

// GetUser implements core.UserRepository.
func (u *UserRepository) GetUser(ctx context.Context, id core.UserID) (*core.User, error) {
	rows, _ := u.db.Query(ctx, selectUsers+"WHERE id = $1", id)
	return u.collectUser(rows)
}

// GetUserByEmail implements core.UserRepository.
func (u *UserRepository) GetUserByEmail(
	ctx context.Context,
	email core.EmailAddress,
) (*core.User, error) {
	rows, _ := u.db.Query(ctx, selectUsers+"WHERE email = $1", email.String())
	return u.collectUser(rows)
}

// GetPasswordHash implements core.UserRepository.
func (u *UserRepository) GetPasswordHash(ctx context.Context, id core.UserID) ([]byte, error) {
	var hash []byte
	err := u.db.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", id).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrUserDoesNotExist
	} else if err != nil {
		return nil, convertPgError(err)
	}
	return hash, nil
}

// ListUsers implements core.UserRepository.
func (u *UserRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := u.db.Query(ctx, selectUsers+"ORDER BY joined, id")
	if err != nil {
		return nil, convertPgError(err)
	}
	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("cannot read users: %w", err)
	}
	return users, nil
}

// UpdateUserAdmin implements core.UserRepository.
func (u *UserRepository) UpdateUserAdmin(ctx context.Context, id core.UserID, admin bool) error {
	tag, err := u.db.Exec(ctx, "UPDATE users SET admin = $2 WHERE id = $1", id, admin)
	if err != nil {
		return convertPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUserDoesNotExist
	}
	return nil
}

func (u *UserRepository) collectUser(rows pgx.Rows) (*core.User, error) {
	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrUserDoesNotExist
	} else if err != nil {
		return nil, convertPgError(err)
	}
	return &user, nil
}

func scanUser(row pgx.CollectableRow) (core.User, error) {
	var (
		user  core.User
		email string
	)
	err := row.Scan(&user.ID, &user.PersonName, &email, &user.Phone, &user.Admin, &user.Joined)
	if err != nil {
		return user, err
	}
	user.Email, err = core.ParseEmailAddress(email)
	if err != nil {
		return user, fmt.Errorf("user %v has an invalid e-mail address: %w", user.ID, err)
	}
	return user, nil
}
