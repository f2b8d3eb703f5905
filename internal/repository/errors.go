package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrMissingReference is returned when a write violates a foreign key.
	ErrMissingReference = errors.New("missing referenced row")
)

// translate maps postgres constraint violations onto the package's
// sentinel errors, keeping the driver error in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w (%s): %w", ErrDuplicate, pgErr.ConstraintName, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w (%s): %w", ErrMissingReference, pgErr.ConstraintName, err)
		}
	}
	return err
}
