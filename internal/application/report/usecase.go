// Package report contiene los casos de uso de lectura: resumen, rollup por
// medicamento e historial filtrado. Todo se recalcula por petición sobre el
// estado actual del catálogo y del log de movimientos; no hay caché.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/farmabem/farmastock-api/internal/application/dto"
	"github.com/farmabem/farmastock-api/internal/domain"
	"github.com/farmabem/farmastock-api/internal/domain/entity"
	"github.com/farmabem/farmastock-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ReportUseCase genera el resumen del tablero y los reportes de movimientos.
type ReportUseCase struct {
	repo              repository.ReportRepository
	movements         repository.StockMovementRepository
	defaultWindowDays int
}

// NewReportUseCase construye el caso de uso. defaultWindowDays aplica cuando
// el caller no pide una ventana explícita.
func NewReportUseCase(repo repository.ReportRepository, movements repository.StockMovementRepository, defaultWindowDays int) *ReportUseCase {
	if defaultWindowDays <= 0 {
		defaultWindowDays = 7
	}
	return &ReportUseCase{repo: repo, movements: movements, defaultWindowDays: defaultWindowDays}
}

// Summary construye el SummaryDTO: total de medicamentos y movimientos
// recientes dentro de la ventana pedida (0 = ventana por defecto).
//
// Tres consultas en paralelo:
//  1. CountMedications           → TotalMedications
//  2. CountMovements(entry)      → RecentEntries
//  3. CountMovements(exit)       → RecentExits
func (uc *ReportUseCase) Summary(ctx context.Context, windowDays int) (*dto.SummaryDTO, error) {
	if windowDays <= 0 {
		windowDays = uc.defaultWindowDays
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	type countResult struct {
		n   int64
		err error
	}

	medsCh := make(chan countResult, 1)
	entriesCh := make(chan countResult, 1)
	exitsCh := make(chan countResult, 1)

	go func() {
		n, err := uc.repo.CountMedications(ctx)
		medsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountMovements(ctx, entity.MovementKindEntry, since)
		entriesCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountMovements(ctx, entity.MovementKindExit, since)
		exitsCh <- countResult{n, err}
	}()

	meds := <-medsCh
	entries := <-entriesCh
	exits := <-exitsCh

	if meds.err != nil {
		return nil, fmt.Errorf("resumen: total de medicamentos: %w", meds.err)
	}
	if entries.err != nil {
		return nil, fmt.Errorf("resumen: entradas recientes: %w", entries.err)
	}
	if exits.err != nil {
		return nil, fmt.Errorf("resumen: salidas recientes: %w", exits.err)
	}

	return &dto.SummaryDTO{
		TotalMedications: meds.n,
		RecentEntries:    entries.n,
		RecentExits:      exits.n,
		WindowDays:       windowDays,
	}, nil
}

// Rollup suma cantidades de entrada y salida por nombre de medicamento en el
// rango dado (fechas vacías = sin tope por ese extremo).
func (uc *ReportUseCase) Rollup(ctx context.Context, fromStr, toStr string) ([]dto.MedicationRollupDTO, error) {
	from, to, err := parseRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.RollupByMedication(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MedicationRollupDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MedicationRollupDTO{
			MedicationName: r.MedicationName,
			EntryQuantity:  r.EntryQuantity,
			ExitQuantity:   r.ExitQuantity,
		})
	}
	return out, nil
}

// History devuelve el historial de movimientos que cumple el filtro, ordenado
// del más reciente al más antiguo. Los predicados se resuelven en la base.
func (uc *ReportUseCase) History(ctx context.Context, q dto.HistoryQuery) ([]dto.MovementResponse, error) {
	if q.Kind != "" && q.Kind != entity.MovementKindEntry && q.Kind != entity.MovementKindExit {
		return nil, domain.ErrInvalidInput
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()

	movements, err := uc.repo.FilteredHistory(ctx, repository.HistoryFilter{
		Kind:           q.Kind,
		From:           from,
		To:             to,
		Responsible:    q.Responsible,
		MedicationName: q.MedicationName,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:             m.ID,
			MedicationID:   m.MedicationID,
			MedicationName: m.MedicationName,
			Kind:           m.Kind,
			Quantity:       m.Quantity,
			Batch:          m.Batch,
			Reason:         m.Reason,
			Responsible:    m.Responsible,
			MovementDate:   m.MovementDate,
			OccurredAt:     m.OccurredAt,
		})
	}
	return out, nil
}

// MedicationHistory devuelve la ficha de movimientos de un medicamento,
// paginada y del más reciente al más antiguo.
func (uc *ReportUseCase) MedicationHistory(ctx context.Context, medicationID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if medicationID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	movements, err := uc.movements.ListByMedication(ctx, medicationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementResponse{
			ID:             m.ID,
			MedicationID:   m.MedicationID,
			MedicationName: m.MedicationName,
			Kind:           m.Kind,
			Quantity:       m.Quantity,
			Batch:          m.Batch,
			Reason:         m.Reason,
			Responsible:    m.Responsible,
			MovementDate:   m.MovementDate,
			OccurredAt:     m.OccurredAt,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// parseRange interpreta fechas YYYY-MM-DD inclusivas; el extremo "to" cubre
// el día completo (23:59:59.999...).
func parseRange(fromStr, toStr string) (from, to *time.Time, err error) {
	if fromStr != "" {
		t, perr := time.Parse(dateLayout, fromStr)
		if perr != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		from = &t
	}
	if toStr != "" {
		t, perr := time.Parse(dateLayout, toStr)
		if perr != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, domain.ErrInvalidInput
	}
	return from, to, nil
}
