package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	uniqueViolation pq.ErrorCode = "23505"

	staffsPKey = "staffs_pkey"
)

// isUniqueViolation reports whether err is a Postgres unique violation on constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}

// trapNoRowsErr replaces sql.ErrNoRows with notFoundErr.
func trapNoRowsErr(err, notFoundErr error) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFoundErr
	}
	return err
}
