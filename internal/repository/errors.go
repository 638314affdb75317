package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors surfaced by transactional mutations. Missing rows are
// reported as sql.ErrNoRows like every other lookup.
var (
	ErrActivityFull       = errors.New("activity is full")
	ErrAlreadyRegistered  = errors.New("already registered for activity")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrRequestNotAssigned = errors.New("request is addressed to another student")
	ErrAlreadyResponded   = errors.New("request already answered")
)

const uniqueViolation = "23505"

// uniqueConstraint returns the violated constraint name when err is a
// PostgreSQL unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}
