package entity

import "time"

// Tipos de bodega.
const (
	WarehouseTypeGeneral   = "GENERAL"   // bodega física estándar
	WarehouseTypeVehicle   = "VEHICLE"   // vehículo de reparto con inventario a bordo
	WarehouseTypeTemporary = "TEMPORARY" // ubicación transitoria (ferias, consignación)
)

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Nunca se elimina físicamente una vez que tiene stock o movimientos: se desactiva.
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string // código corto único por empresa
	Name      string
	Type      string // GENERAL, VEHICLE, TEMPORARY
	Address   string
	Active    bool
	IsDefault bool // bodega por defecto para confirmación de documentos
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidWarehouseType indica si el tipo de bodega es uno de los conocidos.
func ValidWarehouseType(t string) bool {
	switch t {
	case WarehouseTypeGeneral, WarehouseTypeVehicle, WarehouseTypeTemporary:
		return true
	}
	return false
}
