package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario. La cantidad se guarda siempre como
// magnitud positiva; el signo lo determina el tipo (y Direction en ajustes).
const (
	MovementTypePURCHASE    = "PURCHASE"     // entrada por compra confirmada
	MovementTypeSALE        = "SALE"         // salida por venta confirmada
	MovementTypeADJUSTMENT  = "ADJUSTMENT"   // ajuste manual (conteo físico)
	MovementTypeTransferOut = "TRANSFER_OUT" // salida por traslado entre bodegas
	MovementTypeTransferIn  = "TRANSFER_IN"  // entrada por traslado entre bodegas
	MovementTypeRETURN      = "RETURN"       // entrada por devolución
	MovementTypePRODUCTION  = "PRODUCTION"   // entrada por producción
	MovementTypeLOSS        = "LOSS"         // salida por merma o pérdida
)

// Direcciones de un ADJUSTMENT: puede sumar o restar según el delta del conteo.
const (
	AdjustmentDirectionIn  = "IN"
	AdjustmentDirectionOut = "OUT"
)

// Tipos de referencia al documento origen de un movimiento.
const (
	ReferenceTypeSalesDocument    = "SALES_DOCUMENT"
	ReferenceTypePurchaseDocument = "PURCHASE_DOCUMENT"
	ReferenceTypeTransfer         = "TRANSFER"
)

// StockMovement representa un cambio de cantidad, inmutable una vez escrito.
// Las correcciones se hacen con un movimiento compensatorio nuevo, nunca
// editando el histórico.
type StockMovement struct {
	ID            string
	CompanyID     string
	WarehouseID   string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal // magnitud positiva; signo implícito en Type
	Direction     string          // solo ADJUSTMENT: IN o OUT
	Date          time.Time
	ReferenceType string // documento origen (vacío en operaciones manuales)
	ReferenceID   string
	Notes         string
	CreatedBy     string // UserID
	CreatedAt     time.Time
}

// MovementSign devuelve +1 o -1 según el efecto del tipo sobre la cantidad,
// o 0 si el tipo no tiene signo fijo (ADJUSTMENT o desconocido).
func MovementSign(movementType string) int {
	switch movementType {
	case MovementTypePURCHASE, MovementTypeTransferIn, MovementTypeRETURN, MovementTypePRODUCTION:
		return 1
	case MovementTypeSALE, MovementTypeTransferOut, MovementTypeLOSS:
		return -1
	}
	return 0
}

// SignedQuantity devuelve la contribución con signo del movimiento sobre la
// posición. La posición debe ser siempre la suma de estas contribuciones.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	switch MovementSign(m.Type) {
	case 1:
		return m.Quantity
	case -1:
		return m.Quantity.Neg()
	}
	if m.Direction == AdjustmentDirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// ValidMovementType indica si el tipo es uno de los conocidos.
func ValidMovementType(t string) bool {
	if t == MovementTypeADJUSTMENT {
		return true
	}
	return MovementSign(t) != 0
}
