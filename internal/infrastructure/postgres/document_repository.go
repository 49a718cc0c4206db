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

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador de persistencia para documentos.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, company_id, type, status, number, warehouse_id, date, notes, created_by, created_at, updated_at`

// Create persiste la cabecera del documento. Número único por empresa y tipo.
func (r *DocumentRepo) Create(document *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	var warehouseID *string
	if document.WarehouseID != "" {
		warehouseID = &document.WarehouseID
	}
	_, err := r.q.Exec(context.Background(), query,
		document.ID, document.CompanyID, document.Type, document.Status,
		document.Number, warehouseID, document.Date, document.Notes,
		document.CreatedBy, document.CreatedAt, document.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// CreateLine persiste una línea del documento.
func (r *DocumentRepo) CreateLine(line *entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (id, document_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert document line: %w", err)
	}
	return nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var warehouseID *string
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.Type, &d.Status, &d.Number, &warehouseID,
		&d.Date, &d.Notes, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if warehouseID != nil {
		d.WarehouseID = *warehouseID
	}
	return &d, nil
}

// GetByID obtiene la cabecera de un documento por ID.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// GetLines devuelve las líneas de un documento en orden de inserción.
func (r *DocumentRepo) GetLines(documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, product_id, quantity, unit_price, subtotal
		FROM document_lines WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListByCompany lista documentos por empresa, opcionalmente filtrados por estado.
func (r *DocumentRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1`
	args := []interface{}{companyID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// UpdateStatus persiste la transición de estado (y la bodega resuelta al
// confirmar). El UPDATE es condicional sobre el estado previo: dos
// transacciones concurrentes sobre el mismo documento se serializan en el
// bloqueo de fila y la que llega segunda no coincide con fromStatus, así
// una confirmación nunca se aplica dos veces. Cero filas afectadas es
// ErrConflict. Se ejecuta dentro de la misma transacción que los movimientos.
func (r *DocumentRepo) UpdateStatus(document *entity.Document, fromStatus string) error {
	query := `
		UPDATE documents SET status = $2, warehouse_id = $3, updated_at = $4
		WHERE id = $1 AND status = $5`
	var warehouseID *string
	if document.WarehouseID != "" {
		warehouseID = &document.WarehouseID
	}
	ct, err := r.q.Exec(context.Background(), query,
		document.ID, document.Status, warehouseID, document.UpdatedAt, fromStatus,
	)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
