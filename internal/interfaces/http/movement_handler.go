package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmabem/farmastock-api/internal/application/dto"
	"github.com/farmabem/farmastock-api/internal/application/ledger"
	"github.com/farmabem/farmastock-api/internal/application/report"
)

// MovementHandler endpoints del ledger: registrar entradas/salidas, corregir
// cantidades y consultar el historial filtrado.
type MovementHandler struct {
	ledger  *ledger.LedgerUseCase
	reports *report.ReportUseCase
}

// NewMovementHandler construye el handler de movimientos.
func NewMovementHandler(ledgerUC *ledger.LedgerUseCase, reportUC *report.ReportUseCase) *MovementHandler {
	return &MovementHandler{ledger: ledgerUC, reports: reportUC}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de stock
// @Description  Inserta el evento y suma la cantidad al stock en una sola transacción
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegisterEntryRequest true "Datos de la entrada"
// @Success      201 {object} map[string]string
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/movements/entries [post]
func (h *MovementHandler) RegisterEntry(c *fiber.Ctx) error {
	var req dto.RegisterEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	eventID, err := h.ledger.RecordEntry(c.UserContext(), GetUserID(c), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": eventID})
}

// RegisterExit godoc
// @Summary      Registrar salida de stock
// @Description  Verifica stock suficiente bajo lock; si no alcanza responde 409 sin efecto
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegisterExitRequest true "Datos de la salida"
// @Success      201 {object} map[string]string
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /api/movements/exits [post]
func (h *MovementHandler) RegisterExit(c *fiber.Ctx) error {
	var req dto.RegisterExitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	eventID, err := h.ledger.RecordExit(c.UserContext(), GetUserID(c), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": eventID})
}

// CorrectQuantity godoc
// @Summary      Corregir cantidad de un movimiento
// @Description  Sobrescribe la cantidad del evento y reconcilia el stock del medicamento
// @Tags         movements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID del movimiento"
// @Param        body body dto.CorrectQuantityRequest true "Nueva cantidad"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /api/movements/{id}/quantity [patch]
func (h *MovementHandler) CorrectQuantity(c *fiber.Ctx) error {
	var req dto.CorrectQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	if err := h.ledger.CorrectQuantity(c.UserContext(), c.Params("id"), req.Quantity); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ByMedication godoc
// @Summary      Ficha de movimientos de un medicamento
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID del medicamento"
// @Param        limit query int false "tamaño de página"
// @Param        offset query int false "desplazamiento"
// @Success      200 {object} dto.MovementListResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/medications/{id}/movements [get]
func (h *MovementHandler) ByMedication(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	list, err := h.reports.MedicationHistory(c.UserContext(), c.Params("id"), page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// History godoc
// @Summary      Historial de movimientos
// @Description  Filtros opcionales por tipo, rango de fechas, responsable y medicamento
// @Tags         movements
// @Produce      json
// @Security     BearerAuth
// @Param        kind query string false "entry o exit"
// @Param        from query string false "YYYY-MM-DD inclusivo"
// @Param        to query string false "YYYY-MM-DD inclusivo"
// @Param        responsible query string false "substring, sin distinguir mayúsculas"
// @Param        medication query string false "substring, sin distinguir mayúsculas"
// @Param        limit query int false "tamaño de página"
// @Param        offset query int false "desplazamiento"
// @Success      200 {array} dto.MovementResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	movements, err := h.reports.History(c.UserContext(), q)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(movements)
}
