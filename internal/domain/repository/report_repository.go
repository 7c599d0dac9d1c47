package repository

import (
	"context"
	"time"

	"github.com/farmabem/farmastock-api/internal/domain/entity"
)

// HistoryFilter criterios opcionales del historial de movimientos.
// Los predicados se resuelven en la base (WHERE/ILIKE), no en memoria.
type HistoryFilter struct {
	Kind           string     // entry | exit | "" (ambos)
	From           *time.Time // inclusivo
	To             *time.Time // inclusivo
	Responsible    string     // substring, case-insensitive
	MedicationName string     // substring, case-insensitive
	Limit          int
	Offset         int
}

// MedicationRollup resultado crudo del rollup por medicamento.
// Lo produce la DB; el use case lo convierte en DTO.
type MedicationRollup struct {
	MedicationName string
	EntryQuantity  int64
	ExitQuantity   int64
}

// ReportRepository define las consultas de lectura para resumen y reportes.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// CountMedications devuelve el total de medicamentos registrados.
	CountMedications(ctx context.Context) (int64, error)

	// CountMovements cuenta movimientos del tipo dado con OccurredAt >= since.
	CountMovements(ctx context.Context, kind string, since time.Time) (int64, error)

	// RollupByMedication suma cantidades de entrada y salida por nombre de
	// medicamento dentro del rango dado (límites nil = sin tope).
	RollupByMedication(ctx context.Context, from, to *time.Time) ([]MedicationRollup, error)

	// FilteredHistory devuelve movimientos que cumplen el filtro, ordenados
	// por OccurredAt descendente.
	FilteredHistory(ctx context.Context, filter HistoryFilter) ([]*entity.StockMovement, error)
}
