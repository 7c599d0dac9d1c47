package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmabem/farmastock-api/internal/application/catalog"
	"github.com/farmabem/farmastock-api/internal/application/dto"
)

// MedicationHandler endpoints del catálogo de medicamentos.
type MedicationHandler struct {
	uc *catalog.CatalogUseCase
}

// NewMedicationHandler construye el handler del catálogo.
func NewMedicationHandler(uc *catalog.CatalogUseCase) *MedicationHandler {
	return &MedicationHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar medicamento
// @Description  Crea un medicamento; la cantidad disponible arranca igual a la inicial
// @Tags         medications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegisterMedicationRequest true "Datos del medicamento"
// @Success      201 {object} dto.MedicationResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/medications [post]
func (h *MedicationHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterMedicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	med, err := h.uc.Register(c.UserContext(), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(med)
}

// List godoc
// @Summary      Listar medicamentos
// @Tags         medications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MedicationListResponse
// @Router       /api/medications [get]
func (h *MedicationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener medicamento
// @Tags         medications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID del medicamento"
// @Success      200 {object} dto.MedicationResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/medications/{id} [get]
func (h *MedicationHandler) GetByID(c *fiber.Ctx) error {
	med, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(med)
}

// Update godoc
// @Summary      Editar medicamento
// @Description  Sobrescribe atributos descriptivos; la cantidad no se edita por aquí
// @Tags         medications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID del medicamento"
// @Param        body body dto.UpdateMedicationRequest true "Atributos a modificar"
// @Success      200 {object} dto.MedicationResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/medications/{id} [put]
func (h *MedicationHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateMedicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	med, err := h.uc.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(med)
}
