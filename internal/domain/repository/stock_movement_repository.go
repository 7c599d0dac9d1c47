package repository

import (
	"context"

	"github.com/farmabem/farmastock-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el log de movimientos.
// No existe Delete: el log es append-only salvo la corrección de cantidad.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// UpdateQuantity sobrescribe la cantidad de un evento existente (corrección administrativa).
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	ListByMedication(ctx context.Context, medicationID string, limit, offset int) ([]*entity.StockMovement, error)
}
