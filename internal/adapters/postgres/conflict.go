package postgres

import (
	"errors"

	"github.com/lib/pq"

	apperrors "cashback-backend/internal/common/errors"
)

// uniqueViolation is the Postgres error code for a unique index violation.
const uniqueViolation = "23505"

// conflictFor maps a unique-index violation to a structured conflict error.
// The violated fields and their offending values come from the constraint
// name and the record that was being written, never from parsing the
// database error text. Returns nil when err is not a unique violation.
func conflictFor(err error, byConstraint map[string][]apperrors.FieldError) *apperrors.Error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return nil
	}
	if fields, ok := byConstraint[pqErr.Constraint]; ok {
		return apperrors.Conflict(fields)
	}
	// Unknown constraint: still a conflict, without field annotation.
	return apperrors.Conflict(nil)
}
