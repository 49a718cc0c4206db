package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

func TestThresholdStatus(t *testing.T) {
	min := decimal.NewFromInt(5)
	max := decimal.NewFromInt(100)
	p := &entity.Product{MinStock: &min, MaxStock: &max}

	assert.Equal(t, entity.ThresholdStatusBelowMin, p.ThresholdStatus(decimal.NewFromInt(2)))
	assert.Equal(t, entity.ThresholdStatusOK, p.ThresholdStatus(decimal.NewFromInt(5)), "el mínimo exacto no es BELOW_MIN")
	assert.Equal(t, entity.ThresholdStatusOK, p.ThresholdStatus(decimal.NewFromInt(50)))
	assert.Equal(t, entity.ThresholdStatusOK, p.ThresholdStatus(decimal.NewFromInt(100)), "el máximo exacto no es ABOVE_MAX")
	assert.Equal(t, entity.ThresholdStatusAboveMax, p.ThresholdStatus(decimal.NewFromInt(101)))
}

func TestThresholdStatus_SinUmbrales(t *testing.T) {
	p := &entity.Product{}
	assert.Equal(t, entity.ThresholdStatusOK, p.ThresholdStatus(decimal.Zero))
	assert.Equal(t, entity.ThresholdStatusOK, p.ThresholdStatus(decimal.NewFromInt(1000000)))
}

func TestDocument_MovementTypeOnConfirm(t *testing.T) {
	venta := &entity.Document{Type: entity.DocumentTypeSales}
	tipo, salida := venta.MovementTypeOnConfirm()
	assert.Equal(t, entity.MovementTypeSALE, tipo)
	assert.True(t, salida)
	assert.Equal(t, entity.ReferenceTypeSalesDocument, venta.ReferenceType())

	compra := &entity.Document{Type: entity.DocumentTypePurchase}
	tipo, salida = compra.MovementTypeOnConfirm()
	assert.Equal(t, entity.MovementTypePURCHASE, tipo)
	assert.False(t, salida)
	assert.Equal(t, entity.ReferenceTypePurchaseDocument, compra.ReferenceType())
}
