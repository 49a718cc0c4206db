package repository

import "github.com/jhoicas/Kardex-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	ListByCompany(companyID string, activeOnly bool, limit, offset int) ([]*entity.Warehouse, error)
	// GetDefault devuelve la bodega por defecto de la empresa, o nil si no hay.
	GetDefault(companyID string) (*entity.Warehouse, error)
	// ClearDefault quita la marca de bodega por defecto en toda la empresa
	// (previo a marcar otra).
	ClearDefault(companyID string) error
	// Delete elimina físicamente una bodega. Solo debe usarse cuando la bodega
	// no tiene posiciones ni movimientos; con historial se desactiva.
	Delete(id string) error
}
