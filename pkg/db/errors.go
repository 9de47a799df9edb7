package db

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/pokeshop-api/pkg/errors"
)

// IsUniqueViolation reports whether the provided error references a unique violation
// constraint. When constraintName is provided, the helper looks for the constraint text
// in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err is a Postgres (23503) or SQLite foreign key failure.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "SQLSTATE 23503") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// IsTimeout reports whether the statement was abandoned because its context expired.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// WrapStoreError tags a driver failure with the code the API reports for it. Expired
// contexts become timeouts; everything else is an internal error with the cause kept for logs.
func WrapStoreError(err error, message string) error {
	if IsTimeout(err) {
		return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
