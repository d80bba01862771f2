package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prior-it/crud/core"
)

const selectUsers = "SELECT id, name, email, phone, admin, joined FROM users "

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db}
}

// Sqlite implementation of the core UserRepository interface.
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
	_, err := u.db.ExecContext(
		ctx,
		"INSERT INTO users (id, name, email, phone, password_hash, joined) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID,
		user.PersonName,
		user.Email.String(),
		user.Phone,
		data.PasswordHash,
		user.Joined,
	)
	if err != nil {
		return nil, convertSqliteError(err)
	}
	return &user, nil
}

// DeleteUser implements core.UserRepository.
func (u *UserRepository) DeleteUser(ctx context.Context, id core.UserID) error {
	_, err := u.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return convertSqliteError(err)
}

// GetAmountOfUsers implements core.UserRepository.
func (u *UserRepository) GetAmountOfUsers(ctx context.Context) (uint64, error) {
	var amount uint64
	err := u.db.QueryRowContext(ctx, "SELECT count(*) FROM users").Scan(&amount)
	if err != nil {
		return 0, convertSqliteError(err)
	}
	return amount, nil
}

// GetUser implements core.UserRepository.
func (u *UserRepository) GetUser(ctx context.Context, id core.UserID) (*core.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, selectUsers+"WHERE id = ?", id))
}

// GetUserByEmail implements core.UserRepository.
func (u *UserRepository) GetUserByEmail(
	ctx context.Context,
	email core.EmailAddress,
) (*core.User, error) {
	return scanUser(u.db.QueryRowContext(ctx, selectUsers+"WHERE email = ?", email.String()))
}

// GetPasswordHash implements core.UserRepository.
func (u *UserRepository) GetPasswordHash(ctx context.Context, id core.UserID) ([]byte, error) {
	var hash []byte
	err := u.db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE id = ?", id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrUserDoesNotExist
	} else if err != nil {
		return nil, convertSqliteError(err)
	}
	return hash, nil
}

// ListUsers implements core.UserRepository.
func (u *UserRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := u.db.QueryContext(ctx, selectUsers+"ORDER BY joined, id")
	if err != nil {
		return nil, convertSqliteError(err)
	}
	defer rows.Close()

	users := make([]core.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("cannot read user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUserAdmin implements core.UserRepository.
func (u *UserRepository) UpdateUserAdmin(ctx context.Context, id core.UserID, admin bool) error {
	result, err := u.db.ExecContext(ctx, "UPDATE users SET admin = ? WHERE id = ?", admin, id)
	return checkAffected(result, err, core.ErrUserDoesNotExist)
}

func scanUser(row scanner) (*core.User, error) {
	var (
		user  core.User
		email string
	)
	err := row.Scan(&user.ID, &user.PersonName, &email, &user.Phone, &user.Admin, &user.Joined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrUserDoesNotExist
	} else if err != nil {
		return nil, convertSqliteError(err)
	}
	user.Email, err = core.ParseEmailAddress(email)
	if err != nil {
		return nil, fmt.Errorf("user %v has an invalid e-mail address: %w", user.ID, err)
	}
	return &user, nil
}
