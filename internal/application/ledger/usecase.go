// Package ledger implementa el servicio de movimientos de stock: es el único
// componente que muta la cantidad disponible de un medicamento, siempre dentro
// de una transacción con la fila del medicamento bloqueada (SELECT FOR UPDATE).
package ledger

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/farmabem/farmastock-api/internal/application/dto"
	"github.com/farmabem/farmastock-api/internal/domain"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// LedgerUseCase registra entradas y salidas de stock de forma transaccional
// y aplica correcciones de cantidad con reconciliación del stock.
type LedgerUseCase struct {
	txRunner TxRunner
	validate *validator.Validate
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, validate: validator.New()}
}

// RecordEntry registra una entrada: inserta el evento y suma la cantidad al
// stock del medicamento en la misma transacción. Devuelve el ID del evento.
func (uc *LedgerUseCase) RecordEntry(ctx context.Context, userID string, in dto.RegisterEntryRequest) (string, error) {
	if err := uc.validate.Struct(in); err != nil {
		return "", domain.ErrInvalidInput
	}
	movementDate, err := normalizeMovementDate(in.MovementDate)
	if err != nil {
		return "", err
	}

	now := time.Now()
	eventID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		medRepo repository.MedicationRepository,
	) error {
		// Bloquea la fila del medicamento para evitar condiciones de carrera
		med, err := medRepo.GetForUpdate(ctx, in.MedicationID)
		if err != nil {
			return err
		}
		if med == nil {
			return domain.ErrNotFound
		}
		mov := &entity.StockMovement{
			ID:             eventID,
			MedicationID:   med.ID,
			MedicationName: med.Name,
			Kind:           entity.MovementKindEntry,
			Quantity:       in.Quantity,
			Batch:          in.Batch,
			Responsible:    in.Responsible,
			MovementDate:   movementDate,
			OccurredAt:     now,
			CreatedBy:      userID,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return medRepo.UpdateQuantity(ctx, med.ID, med.Quantity+in.Quantity)
	})
	if err != nil {
		return "", err
	}
	return eventID, nil
}

// RecordExit registra una salida: verifica stock suficiente con la fila ya
// bloqueada, inserta el evento y resta la cantidad. Si la cantidad solicitada
// excede el stock disponible retorna ErrInsufficientStock sin efecto alguno.
func (uc *LedgerUseCase) RecordExit(ctx context.Context, userID string, in dto.RegisterExitRequest) (string, error) {
	if err := uc.validate.Struct(in); err != nil {
		return "", domain.ErrInvalidInput
	}
	movementDate, err := normalizeMovementDate(in.MovementDate)
	if err != nil {
		return "", err
	}

	now := time.Now()
	eventID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		medRepo repository.MedicationRepository,
	) error {
		med, err := medRepo.GetForUpdate(ctx, in.MedicationID)
		if err != nil {
			return err
		}
		if med == nil {
			return domain.ErrNotFound
		}
		// El chequeo y el decremento ocurren bajo el mismo lock: dos salidas
		// concurrentes nunca dejan el stock negativo.
		if med.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		mov := &entity.StockMovement{
			ID:             eventID,
			MedicationID:   med.ID,
			MedicationName: med.Name,
			Kind:           entity.MovementKindExit,
			Quantity:       in.Quantity,
			Reason:         in.Reason,
			Responsible:    in.Responsible,
			MovementDate:   movementDate,
			OccurredAt:     now,
			CreatedBy:      userID,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return medRepo.UpdateQuantity(ctx, med.ID, med.Quantity-in.Quantity)
	})
	if err != nil {
		return "", err
	}
	return eventID, nil
}

// CorrectQuantity sobrescribe la cantidad de un evento ya registrado y
// reconcilia el stock del medicamento como initial + Σentradas − Σsalidas,
// todo en la misma transacción. Si la reconciliación dejara el stock
// negativo, la corrección se rechaza completa con ErrInsufficientStock.
func (uc *LedgerUseCase) CorrectQuantity(ctx context.Context, eventID string, newQuantity int64) error {
	if newQuantity <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		medRepo repository.MedicationRepository,
	) error {
		mov, err := movRepo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		// Lock del medicamento antes de recalcular, igual que en entradas/salidas
		med, err := medRepo.GetForUpdate(ctx, mov.MedicationID)
		if err != nil {
			return err
		}
		if med == nil {
			return domain.ErrNotFound
		}
		if err := movRepo.UpdateQuantity(ctx, eventID, newQuantity); err != nil {
			return err
		}
		quantity, err := medRepo.RecomputeQuantity(ctx, mov.MedicationID)
		if err != nil {
			return err
		}
		if quantity < 0 {
			return domain.ErrInsufficientStock
		}
		return nil
	})
}

// normalizeMovementDate valida la fecha informada por el usuario; vacía se
// completa con la fecha del día. Es independiente del timestamp del servidor.
func normalizeMovementDate(s string) (string, error) {
	if s == "" {
		return time.Now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", domain.ErrInvalidInput
	}
	return s, nil
}
