package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/farmabem/farmastock-api/internal/domain"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, medication_id, medication_name, kind, quantity, batch, reason, responsible, movement_date, occurred_at, created_by`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento y publica el evento en el canal de
// notificaciones. NOTIFY dentro de una tx se entrega recién al confirmar,
// así los suscriptores nunca ven eventos de transacciones revertidas.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.MedicationID, movement.MedicationName, movement.Kind,
		movement.Quantity, movement.Batch, movement.Reason, movement.Responsible,
		movement.MovementDate, movement.OccurredAt, createdBy,
	)
	if err != nil {
		return storeError("create stock movement", err)
	}
	return publishEvent(ctx, r.q, entity.StockEvent{
		Source:         movement.Kind,
		MedicationName: movement.MedicationName,
		Quantity:       movement.Quantity,
		OccurredAt:     movement.OccurredAt,
	})
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get stock movement", err)
	}
	return m, nil
}

// UpdateQuantity sobrescribe la cantidad de un evento (corrección administrativa).
// El caller es responsable de reconciliar el stock del medicamento.
func (r *StockMovementRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_movements SET quantity = $2 WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return storeError("update stock movement quantity", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByMedication lista movimientos de un medicamento, más recientes primero.
func (r *StockMovementRepo) ListByMedication(ctx context.Context, medicationID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE medication_id = $1
		ORDER BY occurred_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, medicationID, limit, offset)
	if err != nil {
		return nil, storeError("list movements by medication", err)
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
		return nil, storeError("list movements by medication", err)
	}
	return list, nil
}

// scanMovement mapea una fila de stock_movements a la entidad.
func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.MedicationID, &m.MedicationName, &m.Kind, &m.Quantity,
		&m.Batch, &m.Reason, &m.Responsible, &m.MovementDate, &m.OccurredAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
