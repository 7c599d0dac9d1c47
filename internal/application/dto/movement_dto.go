package dto

import "time"

// RegisterEntryRequest body para POST /api/movements/entries.
type RegisterEntryRequest struct {
	MedicationID string `json:"medication_id" validate:"required"`
	Quantity     int64  `json:"quantity" validate:"required,gt=0"`
	Batch        string `json:"batch,omitempty"` // lote u origen
	MovementDate string `json:"movement_date,omitempty"`
	Responsible  string `json:"responsible" validate:"required"`
}

// RegisterExitRequest body para POST /api/movements/exits.
type RegisterExitRequest struct {
	MedicationID string `json:"medication_id" validate:"required"`
	Quantity     int64  `json:"quantity" validate:"required,gt=0"`
	Reason       string `json:"reason,omitempty"` // motivo o destino
	MovementDate string `json:"movement_date,omitempty"`
	Responsible  string `json:"responsible" validate:"required"`
}

// CorrectQuantityRequest body para PATCH /api/movements/:id/quantity.
type CorrectQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

// MovementListResponse página de movimientos de un medicamento.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementResponse representación HTTP de un movimiento del ledger.
type MovementResponse struct {
	ID             string    `json:"id"`
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Kind           string    `json:"kind"`
	Quantity       int64     `json:"quantity"`
	Batch          string    `json:"batch,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Responsible    string    `json:"responsible"`
	MovementDate   string    `json:"movement_date,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
