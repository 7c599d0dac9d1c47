package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas read-only para resumen y reportes. Los predicados de
// filtrado se resuelven en SQL, no escaneando la colección en memoria.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// CountMedications devuelve el total de medicamentos registrados.
func (r *ReportRepo) CountMedications(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM medications`).Scan(&n)
	if err != nil {
		return 0, storeError("count medications", err)
	}
	return n, nil
}

// CountMovements cuenta movimientos del tipo dado con occurred_at >= since.
func (r *ReportRepo) CountMovements(ctx context.Context, kind string, since time.Time) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_movements WHERE kind = $1 AND occurred_at >= $2`,
		kind, since,
	).Scan(&n)
	if err != nil {
		return 0, storeError("count movements", err)
	}
	return n, nil
}

// RollupByMedication suma entradas y salidas por nombre de medicamento.
func (r *ReportRepo) RollupByMedication(ctx context.Context, from, to *time.Time) ([]repository.MedicationRollup, error) {
	query := `
		SELECT medication_name,
		       COALESCE(SUM(quantity) FILTER (WHERE kind = $1), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE kind = $2), 0)
		FROM stock_movements`
	args := []any{entity.MovementKindEntry, entity.MovementKindExit}
	pos := 3
	where := ""
	if from != nil {
		where += fmt.Sprintf(" WHERE occurred_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		if where == "" {
			where += fmt.Sprintf(" WHERE occurred_at <= $%d", pos)
		} else {
			where += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		}
		args = append(args, *to)
		pos++
	}
	query += where + ` GROUP BY medication_name ORDER BY medication_name`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("rollup by medication", err)
	}
	defer rows.Close()
	var list []repository.MedicationRollup
	for rows.Next() {
		var ru repository.MedicationRollup
		if err := rows.Scan(&ru.MedicationName, &ru.EntryQuantity, &ru.ExitQuantity); err != nil {
			return nil, storeError("scan rollup", err)
		}
		list = append(list, ru)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("rollup by medication", err)
	}
	return list, nil
}

// escapeLike escapa los metacaracteres de LIKE (%, _ y el propio \) para que
// el substring del usuario se compare literal y no como patrón.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// FilteredHistory devuelve movimientos que cumplen el filtro, ordenados por
// occurred_at descendente. Substrings con ILIKE (case-insensitive), escapados
// para que el usuario no inyecte patrones.
func (r *ReportRepo) FilteredHistory(ctx context.Context, filter repository.HistoryFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, filter.Kind)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.Responsible != "" {
		query += fmt.Sprintf(" AND responsible ILIKE '%%' || $%d || '%%'", pos)
		args = append(args, escapeLike(filter.Responsible))
		pos++
	}
	if filter.MedicationName != "" {
		query += fmt.Sprintf(" AND medication_name ILIKE '%%' || $%d || '%%'", pos)
		args = append(args, escapeLike(filter.MedicationName))
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("filtered history", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, storeError("scan stock movement", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("filtered history", err)
	}
	return list, nil
}
