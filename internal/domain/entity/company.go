package entity

import "time"

// Company representa una empresa (tenant). Todos los recursos del sistema
// pertenecen a una empresa y se consultan con su ID explícito.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT u otro identificador fiscal
	CreatedAt time.Time
	UpdatedAt time.Time
}
