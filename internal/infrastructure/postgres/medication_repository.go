package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/farmabem/farmastock-api/internal/domain"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

var _ repository.MedicationRepository = (*MedicationRepo)(nil)

const medicationColumns = `id, name, active_ingredient, concentration, commercial_name, dosage_form, dosage, manufacturer, batch, expiration_date, initial_quantity, quantity, registered_at, updated_at`

// MedicationRepo implementación de MedicationRepository sobre PostgreSQL (usable con pool o tx).
type MedicationRepo struct {
	q Querier
}

// NewMedicationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicationRepository(q Querier) *MedicationRepo {
	return &MedicationRepo{q: q}
}

// Create persiste un medicamento nuevo y publica el evento de registro en el
// canal de notificaciones (NOTIFY se entrega recién al confirmar la tx).
func (r *MedicationRepo) Create(ctx context.Context, med *entity.Medication) error {
	query := `
		INSERT INTO medications (` + medicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		med.ID, med.Name, med.ActiveIngredient, med.Concentration, med.CommercialName,
		med.DosageForm, med.Dosage, med.Manufacturer, med.Batch, med.ExpirationDate,
		med.InitialQuantity, med.Quantity, med.RegisteredAt, med.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeError("insert medication", err)
	}
	return publishEvent(ctx, r.q, entity.StockEvent{
		Source:         entity.EventSourceMedication,
		MedicationName: med.Name,
		OccurredAt:     med.RegisteredAt,
	})
}

// GetByID obtiene un medicamento por ID. Devuelve nil si no existe.
func (r *MedicationRepo) GetByID(ctx context.Context, id string) (*entity.Medication, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el medicamento y bloquea la fila (SELECT FOR UPDATE).
func (r *MedicationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Medication, error) {
	return r.get(ctx, id, true)
}

func (r *MedicationRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var m entity.Medication
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.ActiveIngredient, &m.Concentration, &m.CommercialName,
		&m.DosageForm, &m.Dosage, &m.Manufacturer, &m.Batch, &m.ExpirationDate,
		&m.InitialQuantity, &m.Quantity, &m.RegisteredAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get medication", err)
	}
	return &m, nil
}

// UpdateAttributes sobrescribe los atributos descriptivos. No toca quantity
// ni initial_quantity: eso es del ledger.
func (r *MedicationRepo) UpdateAttributes(ctx context.Context, med *entity.Medication) error {
	query := `
		UPDATE medications
		SET name = $2, active_ingredient = $3, concentration = $4, commercial_name = $5,
		    dosage_form = $6, dosage = $7, manufacturer = $8, batch = $9,
		    expiration_date = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		med.ID, med.Name, med.ActiveIngredient, med.Concentration, med.CommercialName,
		med.DosageForm, med.Dosage, med.Manufacturer, med.Batch,
		med.ExpirationDate, med.UpdatedAt,
	)
	if err != nil {
		return storeError("update medication", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity fija el stock disponible. Usar solo desde el ledger, con la
// fila previamente bloqueada en la misma transacción.
func (r *MedicationRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE medications SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return storeError("update medication quantity", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecomputeQuantity recalcula el stock como initial + Σentradas − Σsalidas a
// partir del log completo. Primero calcula la suma con un SELECT y solo la
// persiste si es no negativa: un total negativo violaría el CHECK de la tabla
// y llegaría al caller como falla de store en vez de como rechazo de negocio.
// El valor se devuelve siempre para que el caller decida el rollback.
func (r *MedicationRepo) RecomputeQuantity(ctx context.Context, id string) (int64, error) {
	query := `
		SELECT m.initial_quantity + COALESCE((
			SELECT SUM(CASE WHEN sm.kind = 'entry' THEN sm.quantity ELSE -sm.quantity END)
			FROM stock_movements sm
			WHERE sm.medication_id = m.id
		), 0)
		FROM medications m
		WHERE m.id = $1`
	var quantity int64
	err := r.q.QueryRow(ctx, query, id).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, storeError("recompute medication quantity", err)
	}
	if quantity < 0 {
		return quantity, nil
	}
	if err := r.UpdateQuantity(ctx, id, quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}

// List devuelve todos los medicamentos registrados.
func (r *MedicationRepo) List(ctx context.Context) ([]*entity.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, storeError("list medications", err)
	}
	defer rows.Close()
	var list []*entity.Medication
	for rows.Next() {
		var m entity.Medication
		if err := rows.Scan(
			&m.ID, &m.Name, &m.ActiveIngredient, &m.Concentration, &m.CommercialName,
			&m.DosageForm, &m.Dosage, &m.Manufacturer, &m.Batch, &m.ExpirationDate,
			&m.InitialQuantity, &m.Quantity, &m.RegisteredAt, &m.UpdatedAt,
		); err != nil {
			return nil, storeError("scan medication", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list medications", err)
	}
	return list, nil
}
