package apperrors

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrConstraint = errors.New("constraint violation")
)

// ClassifySQLite maps SQLite constraint failures onto the sentinel errors
// above. Any other error is returned unchanged.
func ClassifySQLite(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	code := sqliteErr.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}
	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return errors.Join(ErrConflict, err)
	default:
		return errors.Join(ErrConstraint, err)
	}
}
