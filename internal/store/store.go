package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSubmissionIncomplete is returned when a freshly inserted resource
	// cannot be resolved by its identifier. Nothing is committed.
	ErrSubmissionIncomplete = errors.New("submission incomplete: resource identifier could not be resolved")

	// ErrAlreadyLiked is returned when the user already likes the resource.
	ErrAlreadyLiked = errors.New("user has already liked this resource")

	// ErrUserExists is returned when a user name is already registered.
	ErrUserExists = errors.New("user name is already taken")
)

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

// resourceExists reports whether a resource row with id is visible to q.
func resourceExists(ctx context.Context, q queryer, id string) (bool, error) {
	var found int
	err := sqlx.GetContext(ctx, q, &found, q.Rebind(`SELECT 1 FROM resources WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
