package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

func TestMovementSign_EntradasYSalidas(t *testing.T) {
	entradas := []string{
		entity.MovementTypePURCHASE,
		entity.MovementTypeTransferIn,
		entity.MovementTypeRETURN,
		entity.MovementTypePRODUCTION,
	}
	for _, tipo := range entradas {
		assert.Equal(t, 1, entity.MovementSign(tipo), "tipo %s debe sumar", tipo)
	}

	salidas := []string{
		entity.MovementTypeSALE,
		entity.MovementTypeTransferOut,
		entity.MovementTypeLOSS,
	}
	for _, tipo := range salidas {
		assert.Equal(t, -1, entity.MovementSign(tipo), "tipo %s debe restar", tipo)
	}

	// ADJUSTMENT no tiene signo fijo: lo da Direction.
	assert.Equal(t, 0, entity.MovementSign(entity.MovementTypeADJUSTMENT))
	assert.Equal(t, 0, entity.MovementSign("INVENTADO"))
}

func TestSignedQuantity_AjustePorDireccion(t *testing.T) {
	qty := decimal.NewFromInt(5)

	in := &entity.StockMovement{Type: entity.MovementTypeADJUSTMENT, Quantity: qty, Direction: entity.AdjustmentDirectionIn}
	assert.True(t, in.SignedQuantity().Equal(qty), "ajuste IN debe contribuir +5")

	out := &entity.StockMovement{Type: entity.MovementTypeADJUSTMENT, Quantity: qty, Direction: entity.AdjustmentDirectionOut}
	assert.True(t, out.SignedQuantity().Equal(qty.Neg()), "ajuste OUT debe contribuir -5")
}

func TestSignedQuantity_MagnitudSiemprePositiva(t *testing.T) {
	venta := &entity.StockMovement{Type: entity.MovementTypeSALE, Quantity: decimal.NewFromInt(3)}
	assert.True(t, venta.SignedQuantity().Equal(decimal.NewFromInt(-3)))
	assert.True(t, venta.Quantity.IsPositive(), "la magnitud almacenada nunca lleva signo")

	compra := &entity.StockMovement{Type: entity.MovementTypePURCHASE, Quantity: decimal.NewFromInt(3)}
	assert.True(t, compra.SignedQuantity().Equal(decimal.NewFromInt(3)))
}

func TestValidMovementType(t *testing.T) {
	assert.True(t, entity.ValidMovementType(entity.MovementTypeADJUSTMENT))
	assert.True(t, entity.ValidMovementType(entity.MovementTypeSALE))
	assert.True(t, entity.ValidMovementType(entity.MovementTypeTransferIn))
	assert.False(t, entity.ValidMovementType(""))
	assert.False(t, entity.ValidMovementType("OTRO"))
}

func TestAvailableQty_DescuentaReservas(t *testing.T) {
	pos := &entity.StockPosition{
		Quantity:    decimal.NewFromInt(10),
		ReservedQty: decimal.NewFromInt(4),
	}
	assert.True(t, pos.AvailableQty().Equal(decimal.NewFromInt(6)))

	// Reservas mayores que el stock dejan disponibilidad negativa transitoria.
	pos.ReservedQty = decimal.NewFromInt(12)
	assert.True(t, pos.AvailableQty().Equal(decimal.NewFromInt(-2)))
}
