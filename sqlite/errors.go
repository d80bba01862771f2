package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/prior-it/crud/core"
)

// convertSqliteError will convert known sqlite errors to their core variant.
// Unknown or unhandled errors will be returned as-is.
// Converting nil will simply return nil.
func convertSqliteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Join(core.ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return errors.Join(core.ErrInvalidArgument, err)
		default:
			return err
		}
	} else if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(core.ErrNotFound, err)
	}
	return err
}

// checkAffected returns notFound if the statement did not change any rows.
func checkAffected(result sql.Result, err error, notFound error) error {
	if err != nil {
		return convertSqliteError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
