package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	WarehouseID   string
	ProductID     string
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// StockMovementRepository define el puerto del registro de movimientos:
// inserción append-only (nunca update ni delete) y consultas de auditoría.
// El recorder no deduplica; la idempotencia por referencia es del caller.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(companyID string, filter MovementFilter) ([]*entity.StockMovement, error)
	// CountByReference cuenta movimientos que apuntan a un documento; lo usa
	// el hook de confirmación como guarda de idempotencia.
	CountByReference(referenceType, referenceID string) (int, error)
	// SumSigned pliega las contribuciones con signo de todos los movimientos
	// del par bodega+producto. La posición debe coincidir siempre con esta suma.
	SumSigned(warehouseID, productID string) (decimal.Decimal, error)
}
