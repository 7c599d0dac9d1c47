package dto

// SummaryDTO respuesta de GET /api/reports/summary.
type SummaryDTO struct {
	TotalMedications int64 `json:"total_medications"` // medicamentos registrados
	RecentEntries    int64 `json:"recent_entries"`    // entradas dentro de la ventana
	RecentExits      int64 `json:"recent_exits"`      // salidas dentro de la ventana
	WindowDays       int   `json:"window_days"`
}

// MedicationRollupDTO suma de entradas y salidas de un medicamento
// (alimenta la comparación de barras entrada/salida).
type MedicationRollupDTO struct {
	MedicationName string `json:"medication_name"`
	EntryQuantity  int64  `json:"entry_quantity"`
	ExitQuantity   int64  `json:"exit_quantity"`
}

// HistoryQuery parámetros de GET /api/movements (todos opcionales).
type HistoryQuery struct {
	Kind           string `query:"kind"` // entry | exit | vacío (ambos)
	From           string `query:"from"` // YYYY-MM-DD, inclusivo
	To             string `query:"to"`   // YYYY-MM-DD, inclusivo
	Responsible    string `query:"responsible"`
	MedicationName string `query:"medication"`
	PageRequest
}
