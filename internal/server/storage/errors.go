package storage

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row does not exist or is outside
	// the requesting user's scope.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses to a uniqueness
	// constraint. For bookings this is the authoritative guard against
	// double booking, even when two requests race past validation.
	ErrConflict = errors.New("conflict")
)

// isUniqueViolation recognizes uniqueness failures from both the
// Postgres driver and the SQLite driver used in tests.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
