package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, company_id, code, name, type, address, active, is_default, created_at, updated_at`

// Create persiste una nueva bodega. Código único por empresa.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.CompanyID, warehouse.Code, warehouse.Name,
		warehouse.Type, warehouse.Address, warehouse.Active, warehouse.IsDefault,
		warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(
		&w.ID, &w.CompanyID, &w.Code, &w.Name, &w.Type, &w.Address,
		&w.Active, &w.IsDefault, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`
	w, err := scanWarehouse(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// Update actualiza una bodega existente.
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	query := `
		UPDATE warehouses
		SET name = $2, type = $3, address = $4, active = $5, is_default = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.Name, warehouse.Type, warehouse.Address,
		warehouse.Active, warehouse.IsDefault, warehouse.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// ListByCompany lista bodegas por empresa con paginación.
func (r *WarehouseRepo) ListByCompany(companyID string, activeOnly bool, limit, offset int) ([]*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE company_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// GetDefault devuelve la bodega por defecto de la empresa, o nil si no hay.
func (r *WarehouseRepo) GetDefault(companyID string) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE company_id = $1 AND is_default LIMIT 1`
	w, err := scanWarehouse(r.q.QueryRow(context.Background(), query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default warehouse: %w", err)
	}
	return w, nil
}

// ClearDefault quita la marca de bodega por defecto en toda la empresa.
func (r *WarehouseRepo) ClearDefault(companyID string) error {
	query := `UPDATE warehouses SET is_default = false, updated_at = now() WHERE company_id = $1 AND is_default`
	if _, err := r.q.Exec(context.Background(), query, companyID); err != nil {
		return fmt.Errorf("clear default warehouse: %w", err)
	}
	return nil
}

// Delete elimina físicamente una bodega (solo sin historial; el caso de uso
// desactiva cuando hay posiciones).
func (r *WarehouseRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM warehouses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	return nil
}
