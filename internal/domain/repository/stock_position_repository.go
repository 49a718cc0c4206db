package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// StockPositionRepository define el puerto para la posición de stock por
// bodega+producto. Las mutaciones solo deben invocarse dentro de una
// transacción (vía TxRunner); la posición nunca se escribe por fuera del libro.
type StockPositionRepository interface {
	// Get devuelve la posición actual; si no existe fila devuelve una posición
	// en ceros (la fila se crea de forma perezosa con el primer movimiento).
	Get(warehouseID, productID string) (*entity.StockPosition, error)

	// GetForUpdate materializa la fila si no existe, la bloquea
	// (SELECT FOR UPDATE) y la devuelve. Para operaciones que calculan sobre
	// el saldo (ajustes): el delta debe computarse contra un saldo bloqueado,
	// nunca contra la ausencia de fila.
	GetForUpdate(warehouseID, productID string) (*entity.StockPosition, error)

	// DeductAvailable descuenta qty solo si quantity - reserved_qty >= qty,
	// en una única operación atómica de lectura-condición-escritura (la
	// verificación de disponibilidad y el decremento son el mismo paso).
	// Devuelve la posición resultante, o domain.ErrInsufficientStock sin
	// mutar nada si el disponible no alcanza.
	DeductAvailable(warehouseID, productID string, qty decimal.Decimal) (*entity.StockPosition, error)

	// Increase suma qty creando la fila si no existe (upsert atómico).
	// Devuelve la posición resultante.
	Increase(warehouseID, productID string, qty decimal.Decimal) (*entity.StockPosition, error)

	// SetQuantity escribe la cantidad absoluta (ajustes: se fija el objetivo
	// directamente, no por incremento, para evitar deriva por agregación).
	SetQuantity(warehouseID, productID string, qty decimal.Decimal) error

	// ExistsForWarehouse indica si la bodega tiene alguna posición registrada
	// (las posiciones nunca se borran, así que equivale a "tiene historial").
	ExistsForWarehouse(warehouseID string) (bool, error)
}
