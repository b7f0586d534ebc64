// Package postgres holds the sqlx-backed repositories. Queries are built
// with the internal querybuilder; lookups translate sql.ErrNoRows into a
// nil result so callers branch on presence, not error type.
package postgres

import (
	"database/sql"
	"errors"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
