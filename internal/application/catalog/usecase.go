// Package catalog contiene los casos de uso del catálogo de medicamentos.
// El catálogo nunca toca la cantidad disponible: ese campo pertenece al ledger.
package catalog

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

// CatalogUseCase casos de uso de registro y edición de medicamentos.
type CatalogUseCase struct {
	repo     repository.MedicationRepository
	validate *validator.Validate
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.MedicationRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, validate: validator.New()}
}

// Register crea un medicamento con su cantidad inicial. La cantidad disponible
// arranca igual a la inicial; a partir de aquí solo la mueven los movimientos.
func (uc *CatalogUseCase) Register(ctx context.Context, in dto.RegisterMedicationRequest) (*dto.MedicationResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	med := &entity.Medication{
		ID:               uuid.New().String(),
		Name:             in.Name,
		ActiveIngredient: in.ActiveIngredient,
		Concentration:    in.Concentration,
		CommercialName:   in.CommercialName,
		DosageForm:       in.DosageForm,
		Dosage:           in.Dosage,
		Manufacturer:     in.Manufacturer,
		Batch:            in.Batch,
		ExpirationDate:   in.ExpirationDate,
		InitialQuantity:  in.InitialQuantity,
		Quantity:         in.InitialQuantity,
		RegisteredAt:     now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, med); err != nil {
		return nil, err
	}
	return toMedicationResponse(med), nil
}

// Update sobrescribe atributos descriptivos. No permite modificar Quantity
// ni InitialQuantity (se manejan vía movimientos y reconciliación).
func (uc *CatalogUseCase) Update(ctx context.Context, id string, in dto.UpdateMedicationRequest) (*dto.MedicationResponse, error) {
	med, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		med.Name = *in.Name
	}
	if in.ActiveIngredient != nil {
		med.ActiveIngredient = *in.ActiveIngredient
	}
	if in.Concentration != nil {
		med.Concentration = *in.Concentration
	}
	if in.CommercialName != nil {
		med.CommercialName = *in.CommercialName
	}
	if in.DosageForm != nil {
		med.DosageForm = *in.DosageForm
	}
	if in.Dosage != nil {
		med.Dosage = *in.Dosage
	}
	if in.Manufacturer != nil {
		med.Manufacturer = *in.Manufacturer
	}
	if in.Batch != nil {
		med.Batch = *in.Batch
	}
	if in.ExpirationDate != nil {
		med.ExpirationDate = *in.ExpirationDate
	}
	med.UpdatedAt = time.Now()
	if err := uc.repo.UpdateAttributes(ctx, med); err != nil {
		return nil, err
	}
	return toMedicationResponse(med), nil
}

// GetByID obtiene un medicamento por ID.
func (uc *CatalogUseCase) GetByID(ctx context.Context, id string) (*dto.MedicationResponse, error) {
	med, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, domain.ErrNotFound
	}
	return toMedicationResponse(med), nil
}

// List devuelve un snapshot de todos los medicamentos (sin orden garantizado;
// los consumidores ordenan o filtran de su lado).
func (uc *CatalogUseCase) List(ctx context.Context) (*dto.MedicationListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MedicationResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMedicationResponse(m))
	}
	return &dto.MedicationListResponse{Items: items, Total: len(items)}, nil
}

func toMedicationResponse(m *entity.Medication) *dto.MedicationResponse {
	if m == nil {
		return nil
	}
	return &dto.MedicationResponse{
		ID:               m.ID,
		Name:             m.Name,
		ActiveIngredient: m.ActiveIngredient,
		Concentration:    m.Concentration,
		CommercialName:   m.CommercialName,
		DosageForm:       m.DosageForm,
		Dosage:           m.Dosage,
		Manufacturer:     m.Manufacturer,
		Batch:            m.Batch,
		ExpirationDate:   m.ExpirationDate,
		InitialQuantity:  m.InitialQuantity,
		Quantity:         m.Quantity,
		RegisteredAt:     m.RegisteredAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
