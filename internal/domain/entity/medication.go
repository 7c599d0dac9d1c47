package entity

import "time"

// Medication representa un medicamento del catálogo con su stock disponible.
// Quantity solo lo muta el ledger (entradas/salidas o reconciliación tras una
// corrección); InitialQuantity queda fijo desde el registro y ancla la suma
// initial + Σentradas − Σsalidas con la que se reconcilia el stock.
type Medication struct {
	ID               string
	Name             string // obligatorio, no vacío
	ActiveIngredient string
	Concentration    string
	CommercialName   string
	DosageForm       string // comprimido, jarabe, etc.
	Dosage           string
	Manufacturer     string
	Batch            string
	ExpirationDate   string // fecha informada por el usuario (YYYY-MM-DD)
	InitialQuantity  int64
	Quantity         int64 // stock disponible, nunca negativo
	RegisteredAt     time.Time
	UpdatedAt        time.Time
}
