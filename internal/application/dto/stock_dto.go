package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPositionResponse posición actual de un producto en una bodega.
// AvailableQty = Quantity - ReservedQty, siempre derivado.
type StockPositionResponse struct {
	WarehouseID     string          `json:"warehouse_id"`
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReservedQty     decimal.Decimal `json:"reserved_qty"`
	AvailableQty    decimal.Decimal `json:"available_qty"`
	ThresholdStatus string          `json:"threshold_status,omitempty"` // OK, BELOW_MIN, ABOVE_MAX (informativo)
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RegisterMovementRequest body para POST /api/stock/movements.
// Solo admite tipos manuales: RETURN, PRODUCTION, LOSS. Las ventas/compras
// entran por la confirmación de documentos; ajustes y traslados por sus rutas.
type RegisterMovementRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       string          `json:"notes"`
}

// AdjustStockRequest body para POST /api/stock/adjustments: fija la cantidad
// absoluta declarada por el operador (conteo físico).
type AdjustStockRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	TargetQty   decimal.Decimal `json:"target_qty"`
	Reason      string          `json:"reason"`
}

// AdjustStockResponse resultado del ajuste.
type AdjustStockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Delta       decimal.Decimal `json:"delta"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	// MovementID vacío cuando delta fue cero y la política no registra
	// movimientos de magnitud cero.
	MovementID string `json:"movement_id,omitempty"`
}

// TransferStockRequest body para POST /api/stock/transfers.
type TransferStockRequest struct {
	ProductID       string          `json:"product_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes"`
}

// TransferStockResponse resultado del traslado: las dos piernas comparten la
// misma referencia.
type TransferStockResponse struct {
	TransferID      string          `json:"transfer_id"`
	ProductID       string          `json:"product_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// StockMovementResponse un movimiento del kardex.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	WarehouseID   string          `json:"warehouse_id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	SignedQty     decimal.Decimal `json:"signed_qty"`
	Date          time.Time       `json:"date"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ConsistencyResponse verificación de que la posición materializada coincide
// con el pliegue de su historial de movimientos.
type ConsistencyResponse struct {
	WarehouseID    string          `json:"warehouse_id"`
	ProductID      string          `json:"product_id"`
	StoredQuantity decimal.Decimal `json:"stored_quantity"`
	MovementSum    decimal.Decimal `json:"movement_sum"`
	Consistent     bool            `json:"consistent"`
}
