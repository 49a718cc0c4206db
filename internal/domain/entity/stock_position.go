package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition representa el stock actual de un producto en una bodega
// (agregado materializado; la fuente de verdad son los movimientos).
// ReservedQty la administra el subsistema de reservas; aquí solo se respeta.
type StockPosition struct {
	WarehouseID string
	ProductID   string
	Quantity    decimal.Decimal
	ReservedQty decimal.Decimal
	UpdatedAt   time.Time
}

// AvailableQty devuelve la cantidad disponible para salidas: Quantity - ReservedQty.
// Nunca se almacena; se deriva siempre.
func (p *StockPosition) AvailableQty() decimal.Decimal {
	return p.Quantity.Sub(p.ReservedQty)
}
