package entity

import "time"

// Origen del evento que produjo una notificación.
const (
	EventSourceEntry      = "entry"
	EventSourceExit       = "exit"
	EventSourceMedication = "medication"
)

// StockEvent es el cambio crudo que publican los escritores (ledger y catálogo)
// y que consume el feed de notificaciones.
type StockEvent struct {
	Source         string    `json:"source"` // entry | exit | medication
	MedicationName string    `json:"medication_name"`
	Quantity       int64     `json:"quantity,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Notification es el aviso ya formateado que ve el usuario. Vive solo en
// memoria durante la sesión suscrita; no se persiste ni se rellena hacia atrás.
type Notification struct {
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
