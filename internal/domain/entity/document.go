package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento comercial que afectan inventario.
const (
	DocumentTypeSales    = "SALES"    // venta: descuenta stock al confirmar
	DocumentTypePurchase = "PURCHASE" // compra: suma stock al confirmar
)

// Estados del documento. La transición DRAFT -> CONFIRMED muta el libro de
// stock en la misma transacción; CONFIRMED -> VOID escribe movimientos
// compensatorios (el histórico nunca se edita).
const (
	DocumentStatusDraft     = "DRAFT"
	DocumentStatusConfirmed = "CONFIRMED"
	DocumentStatusVoid      = "VOID"
)

// Document representa la cabecera de un documento comercial (venta o compra).
type Document struct {
	ID          string
	CompanyID   string
	Type        string // SALES, PURCHASE
	Status      string // DRAFT, CONFIRMED, VOID
	Number      string
	WarehouseID string // bodega objetivo; vacío = usar la bodega por defecto de la empresa
	Date        time.Time
	Notes       string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DocumentLine representa una línea del documento.
type DocumentLine struct {
	ID         string
	DocumentID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

// MovementTypeOnConfirm devuelve el tipo de movimiento que genera la
// confirmación del documento, y si es salida (descuenta) o entrada (suma).
func (d *Document) MovementTypeOnConfirm() (movementType string, outbound bool) {
	if d.Type == DocumentTypeSales {
		return MovementTypeSALE, true
	}
	return MovementTypePURCHASE, false
}

// ReferenceType devuelve el tipo de referencia que llevan los movimientos
// generados por este documento.
func (d *Document) ReferenceType() string {
	if d.Type == DocumentTypeSales {
		return ReferenceTypeSalesDocument
	}
	return ReferenceTypePurchaseDocument
}

// ValidDocumentType indica si el tipo de documento es uno de los conocidos.
func ValidDocumentType(t string) bool {
	return t == DocumentTypeSales || t == DocumentTypePurchase
}
