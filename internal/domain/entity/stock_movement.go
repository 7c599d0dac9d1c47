package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindEntry = "entry" // entrada
	MovementKindExit  = "exit"  // salida
)

// StockMovement representa un evento del ledger (entrada o salida) sobre un
// medicamento. El log es append-only: el único campo editable a posteriori es
// Quantity, vía la corrección administrativa que además reconcilia el stock.
type StockMovement struct {
	ID             string
	MedicationID   string
	MedicationName string // snapshot del nombre al momento del movimiento
	Kind           string // entry | exit
	Quantity       int64  // siempre positivo; el signo lo da Kind
	Batch          string // lote u origen (entradas)
	Reason         string // motivo o destino (salidas)
	Responsible    string // parte responsable, obligatorio
	MovementDate   string // fecha del movimiento físico informada por el usuario (YYYY-MM-DD)
	OccurredAt     time.Time // timestamp asignado por el servidor al crear
	CreatedBy      string    // UserID autenticado
}
