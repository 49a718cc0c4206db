package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación append-only sobre PostgreSQL (usable con
// pool o tx). Nunca se emite UPDATE ni DELETE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, warehouse_id, product_id, type, quantity, direction, date, reference_type, reference_id, notes, created_by, created_at`

// Create persiste un movimiento del kardex.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	refType := (*string)(nil)
	refID := (*string)(nil)
	if movement.ReferenceType != "" {
		refType = &movement.ReferenceType
		refID = &movement.ReferenceID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	direction := (*string)(nil)
	if movement.Direction != "" {
		direction = &movement.Direction
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.WarehouseID, movement.ProductID,
		movement.Type, movement.Quantity, direction, movement.Date,
		refType, refID, movement.Notes, createdBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var direction, refType, refID, createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.WarehouseID, &m.ProductID, &m.Type,
		&m.Quantity, &direction, &m.Date, &refType, &refID,
		&m.Notes, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if direction != nil {
		m.Direction = *direction
	}
	if refType != nil {
		m.ReferenceType = *refType
	}
	if refID != nil {
		m.ReferenceID = *refID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos de la empresa con filtros opcionales por bodega,
// producto, referencia y rango de fechas, ordenados del más reciente al más
// antiguo.
func (r *StockMovementRepo) List(companyID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.ReferenceType != "" {
		query += fmt.Sprintf(" AND reference_type = $%d", pos)
		args = append(args, filter.ReferenceType)
		pos++
	}
	if filter.ReferenceID != "" {
		query += fmt.Sprintf(" AND reference_id = $%d", pos)
		args = append(args, filter.ReferenceID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByReference cuenta los movimientos que apuntan a un documento
// (guarda de idempotencia de la confirmación).
func (r *StockMovementRepo) CountByReference(referenceType, referenceID string) (int, error) {
	query := `SELECT COUNT(*) FROM stock_movements WHERE reference_type = $1 AND reference_id = $2`
	var count int
	if err := r.q.QueryRow(context.Background(), query, referenceType, referenceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by reference: %w", err)
	}
	return count, nil
}

// SumSigned pliega las contribuciones con signo del historial del par
// bodega+producto. La posición materializada debe coincidir siempre con
// este resultado.
func (r *StockMovementRepo) SumSigned(warehouseID, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN type IN ('PURCHASE', 'TRANSFER_IN', 'RETURN', 'PRODUCTION') THEN quantity
				WHEN type IN ('SALE', 'TRANSFER_OUT', 'LOSS') THEN -quantity
				WHEN type = 'ADJUSTMENT' AND direction = 'OUT' THEN -quantity
				ELSE quantity
			END
		), 0)
		FROM stock_movements
		WHERE warehouse_id = $1 AND product_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, warehouseID, productID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
