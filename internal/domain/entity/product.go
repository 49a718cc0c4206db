package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// El libro de stock solo actúa sobre productos con TracksStock = true;
// MinStock/MaxStock son umbrales informativos, nunca topes duros.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	TracksStock bool
	UnitMeasure string           // unidad, kg, lt, caja...
	Price       decimal.Decimal  // precio de venta
	MinStock    *decimal.Decimal // umbral mínimo sugerido (opcional)
	MaxStock    *decimal.Decimal // umbral máximo sugerido (opcional)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Estados informativos de una posición frente a los umbrales del producto.
const (
	ThresholdStatusOK       = "OK"
	ThresholdStatusBelowMin = "BELOW_MIN"
	ThresholdStatusAboveMax = "ABOVE_MAX"
)

// ThresholdStatus clasifica una cantidad frente a MinStock/MaxStock (solo informativo).
func (p *Product) ThresholdStatus(qty decimal.Decimal) string {
	if p.MinStock != nil && qty.LessThan(*p.MinStock) {
		return ThresholdStatusBelowMin
	}
	if p.MaxStock != nil && qty.GreaterThan(*p.MaxStock) {
		return ThresholdStatusAboveMax
	}
	return ThresholdStatusOK
}
