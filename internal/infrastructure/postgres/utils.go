package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/farmabem/farmastock-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// storeError envuelve una falla del driver (query fallida, timeout) con
// domain.ErrStore para que los callers la distingan con errors.Is sin
// depender de pgx.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStore, err))
}
