package ledger

import (
	"context"

	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el alta del evento y la actualización del stock se confirman o revierten juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		medRepo repository.MedicationRepository,
	) error) error
}
