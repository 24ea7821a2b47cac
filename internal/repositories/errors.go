package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrFormNotFound = errors.New("form not found")

// IntegrityError marks a storage-level conflict (unique or foreign key
// violation), e.g. two concurrent catalog seeds racing on the same code.
// Callers can treat it as transient and retry, unlike a validation failure.
type IntegrityError struct {
	Constraint string
	Err        error
}

func (e *IntegrityError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("integrity conflict on %s: %v", e.Constraint, e.Err)
	}
	return fmt.Sprintf("integrity conflict: %v", e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func wrapIntegrity(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
			return &IntegrityError{Constraint: pgErr.ConstraintName, Err: err}
		}
	}
	return err
}
