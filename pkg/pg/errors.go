package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidConfig       = errors.New("pg: invalid connection string")
	ErrConnect             = errors.New("pg: connection failed")
	ErrHealthcheckFailed   = errors.New("pg: ping failed")
	ErrMigrate             = errors.New("pg: migrations failed")
	ErrMigrationsPathEmpty = errors.New("pg: migrations path is empty")
	ErrMigrationsNotFound  = errors.New("pg: migrations directory not found")
)

// IsNotFoundError reports whether err means the query matched no rows.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}
