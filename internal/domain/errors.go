package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrUnknownWarehouse   = errors.New("bodega no encontrada o inactiva")
	ErrUnknownProduct     = errors.New("producto no encontrado o sin control de stock")
)

// InsufficientStockError indica que una salida excede la cantidad disponible.
// Lleva los saldos para que el caller los muestre tal cual al operador.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Required    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %s, requerido %s",
		e.ProductID, e.Available.String(), e.Required.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// TransferExceedsAvailableError indica que un traslado excede el disponible
// de la bodega origen. Incluye el saldo actual para mostrarlo al operador.
type TransferExceedsAvailableError struct {
	ProductID       string
	FromWarehouseID string
	Available       decimal.Decimal
	Required        decimal.Decimal
}

func (e *TransferExceedsAvailableError) Error() string {
	return fmt.Sprintf("el traslado excede el disponible en bodega %s: disponible %s, solicitado %s",
		e.FromWarehouseID, e.Available.String(), e.Required.String())
}

// Unwrap permite errors.Is(err, ErrInsufficientStock): un traslado que excede
// el disponible es, para el caller, el mismo caso recuperable.
func (e *TransferExceedsAvailableError) Unwrap() error { return ErrInsufficientStock }

// InvalidQuantityError indica una cantidad no positiva en deduct/increase/transfer
// o un objetivo negativo en un ajuste.
type InvalidQuantityError struct {
	Quantity decimal.Decimal
	Reason   string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("cantidad inválida %s: %s", e.Quantity.String(), e.Reason)
}

// Unwrap permite errors.Is(err, ErrInvalidQuantity).
func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }
