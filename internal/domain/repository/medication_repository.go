package repository

import (
	"context"

	"github.com/farmabem/farmastock-api/internal/domain/entity"
)

// MedicationRepository define el puerto de persistencia para Medication (DIP).
// Quantity nunca se actualiza por UpdateAttributes; solo el ledger la toca vía
// UpdateQuantity o RecomputeQuantity dentro de una transacción.
type MedicationRepository interface {
	Create(ctx context.Context, med *entity.Medication) error
	GetByID(ctx context.Context, id string) (*entity.Medication, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Usar dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Medication, error)
	UpdateAttributes(ctx context.Context, med *entity.Medication) error
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	// RecomputeQuantity recalcula el stock como initial + Σentradas − Σsalidas
	// y devuelve el total. Solo lo persiste si es no negativo; un total
	// negativo se devuelve sin persistir para que el caller rechace la
	// operación y revierta la transacción.
	RecomputeQuantity(ctx context.Context, id string) (int64, error)
	List(ctx context.Context) ([]*entity.Medication, error)
}
