package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo implementación de StockPositionRepository sobre
// PostgreSQL (usable con pool o tx).
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

func zeroPosition(warehouseID, productID string) *entity.StockPosition {
	return &entity.StockPosition{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    decimal.Zero,
		ReservedQty: decimal.Zero,
	}
}

// Get obtiene la posición actual; en ceros si la fila aún no existe.
func (r *StockPositionRepo) Get(warehouseID, productID string) (*entity.StockPosition, error) {
	query := `
		SELECT warehouse_id, product_id, quantity, reserved_qty, updated_at
		FROM stock_positions WHERE warehouse_id = $1 AND product_id = $2`
	var p entity.StockPosition
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(
		&p.WarehouseID, &p.ProductID, &p.Quantity, &p.ReservedQty, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zeroPosition(warehouseID, productID), nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	return &p, nil
}

// GetForUpdate materializa la fila si aún no existe y la bloquea
// (SELECT FOR UPDATE). SELECT FOR UPDATE sobre una fila ausente no retiene
// ningún bloqueo y dos ajustes concurrentes sobre un par sin posición
// calcularían ambos su delta contra cero; el INSERT previo garantiza que
// siempre hay fila que bloquear y que el segundo espera al primero.
func (r *StockPositionRepo) GetForUpdate(warehouseID, productID string) (*entity.StockPosition, error) {
	insert := `
		INSERT INTO stock_positions (warehouse_id, product_id, quantity, reserved_qty, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, warehouseID, productID); err != nil {
		return nil, fmt.Errorf("materialize stock position: %w", err)
	}
	query := `
		SELECT warehouse_id, product_id, quantity, reserved_qty, updated_at
		FROM stock_positions WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`
	var p entity.StockPosition
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(
		&p.WarehouseID, &p.ProductID, &p.Quantity, &p.ReservedQty, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock position for update: %w", err)
	}
	return &p, nil
}

// DeductAvailable descuenta qty en un único UPDATE condicional: la
// verificación quantity - reserved_qty >= qty y el decremento son el mismo
// paso atómico, así dos callers concurrentes nunca pasan ambos contra un
// saldo viejo. Sin fila o sin disponible suficiente: ErrInsufficientStock,
// sin mutar nada.
func (r *StockPositionRepo) DeductAvailable(warehouseID, productID string, qty decimal.Decimal) (*entity.StockPosition, error) {
	query := `
		UPDATE stock_positions
		SET quantity = quantity - $3, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2
		  AND quantity - reserved_qty >= $3
		RETURNING warehouse_id, product_id, quantity, reserved_qty, updated_at`
	var p entity.StockPosition
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID, qty).Scan(
		&p.WarehouseID, &p.ProductID, &p.Quantity, &p.ReservedQty, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("deduct stock: %w", err)
	}
	return &p, nil
}

// Increase suma qty creando la fila si no existe (upsert con incremento
// atómico; la posición nace de forma perezosa con el primer movimiento).
func (r *StockPositionRepo) Increase(warehouseID, productID string, qty decimal.Decimal) (*entity.StockPosition, error) {
	query := `
		INSERT INTO stock_positions (warehouse_id, product_id, quantity, reserved_qty, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = stock_positions.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING warehouse_id, product_id, quantity, reserved_qty, updated_at`
	var p entity.StockPosition
	err := r.q.QueryRow(context.Background(), query, warehouseID, productID, qty).Scan(
		&p.WarehouseID, &p.ProductID, &p.Quantity, &p.ReservedQty, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("increase stock: %w", err)
	}
	return &p, nil
}

// SetQuantity fija la cantidad absoluta (ajustes). Upsert: escribe el
// objetivo directamente, no por incremento.
func (r *StockPositionRepo) SetQuantity(warehouseID, productID string, qty decimal.Decimal) error {
	query := `
		INSERT INTO stock_positions (warehouse_id, product_id, quantity, reserved_qty, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, warehouseID, productID, qty)
	if err != nil {
		return fmt.Errorf("set stock quantity: %w", err)
	}
	return nil
}

// ExistsForWarehouse indica si la bodega tiene alguna posición registrada.
func (r *StockPositionRepo) ExistsForWarehouse(warehouseID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stock_positions WHERE warehouse_id = $1)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, warehouseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists for warehouse: %w", err)
	}
	return exists, nil
}
