package dto

import "time"

// RegisterMedicationRequest body para POST /api/medications.
type RegisterMedicationRequest struct {
	Name             string `json:"name" validate:"required"`
	ActiveIngredient string `json:"active_ingredient,omitempty"`
	Concentration    string `json:"concentration,omitempty"`
	CommercialName   string `json:"commercial_name,omitempty"`
	DosageForm       string `json:"dosage_form,omitempty"`
	Dosage           string `json:"dosage,omitempty"`
	Manufacturer     string `json:"manufacturer,omitempty"`
	Batch            string `json:"batch,omitempty"`
	ExpirationDate   string `json:"expiration_date,omitempty"`
	InitialQuantity  int64  `json:"initial_quantity" validate:"required,gt=0"`
}

// UpdateMedicationRequest body para PUT /api/medications/:id.
// No incluye cantidad: el stock solo cambia vía movimientos del ledger.
type UpdateMedicationRequest struct {
	Name             *string `json:"name,omitempty"`
	ActiveIngredient *string `json:"active_ingredient,omitempty"`
	Concentration    *string `json:"concentration,omitempty"`
	CommercialName   *string `json:"commercial_name,omitempty"`
	DosageForm       *string `json:"dosage_form,omitempty"`
	Dosage           *string `json:"dosage,omitempty"`
	Manufacturer     *string `json:"manufacturer,omitempty"`
	Batch            *string `json:"batch,omitempty"`
	ExpirationDate   *string `json:"expiration_date,omitempty"`
}

// MedicationResponse representación HTTP de un medicamento.
type MedicationResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ActiveIngredient string    `json:"active_ingredient,omitempty"`
	Concentration    string    `json:"concentration,omitempty"`
	CommercialName   string    `json:"commercial_name,omitempty"`
	DosageForm       string    `json:"dosage_form,omitempty"`
	Dosage           string    `json:"dosage,omitempty"`
	Manufacturer     string    `json:"manufacturer,omitempty"`
	Batch            string    `json:"batch,omitempty"`
	ExpirationDate   string    `json:"expiration_date,omitempty"`
	InitialQuantity  int64     `json:"initial_quantity"`
	Quantity         int64     `json:"quantity"`
	RegisteredAt     time.Time `json:"registered_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MedicationListResponse respuesta de GET /api/medications.
type MedicationListResponse struct {
	Items []MedicationResponse `json:"items"`
	Total int                  `json:"total"`
}
