package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmabem/farmastock-api/internal/application/report"
)

// ReportHandler endpoints de resumen y reportes agregados.
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler de reportes.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del tablero
// @Description  Total de medicamentos y movimientos dentro de la ventana reciente
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        window_days query int false "días de la ventana (0 = por defecto)"
// @Success      200 {object} dto.SummaryDTO
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext(), c.QueryInt("window_days"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(summary)
}

// Rollup godoc
// @Summary      Entradas y salidas por medicamento
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "YYYY-MM-DD inclusivo"
// @Param        to query string false "YYYY-MM-DD inclusivo"
// @Success      200 {array} dto.MedicationRollupDTO
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/reports/rollup [get]
func (h *ReportHandler) Rollup(c *fiber.Ctx) error {
	rows, err := h.uc.Rollup(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(rows)
}
