package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// IsDuplicateConstraintError reports whether err is a unique violation of the named constraint.
// An empty constraintName matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return isCode(err, codeUniqueViolation, constraintName)
}

// IsForeignKeyViolation reports whether err is a foreign key violation, for example
// deleting a grade that students still reference.
func IsForeignKeyViolation(err error) bool {
	return isCode(err, codeForeignKeyViolation, "")
}

// IsCheckViolation reports whether err violates the named CHECK constraint.
func IsCheckViolation(err error, constraintName string) bool {
	return isCode(err, codeCheckViolation, constraintName)
}

func isCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}
