package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest una línea del documento.
type DocumentLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateDocumentRequest body para POST /api/documents (queda en DRAFT).
// WarehouseID vacío = al confirmar se usa la bodega por defecto de la empresa.
type CreateDocumentRequest struct {
	Type        string                `json:"type"` // SALES, PURCHASE
	Number      string                `json:"number"`
	WarehouseID string                `json:"warehouse_id,omitempty"`
	Notes       string                `json:"notes"`
	Lines       []DocumentLineRequest `json:"lines"`
}

// DocumentLineResponse una línea en respuestas.
type DocumentLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// DocumentResponse cabecera + líneas de un documento.
type DocumentResponse struct {
	ID          string                 `json:"id"`
	CompanyID   string                 `json:"company_id"`
	Type        string                 `json:"type"`
	Status      string                 `json:"status"`
	Number      string                 `json:"number"`
	WarehouseID string                 `json:"warehouse_id,omitempty"`
	Date        time.Time              `json:"date"`
	Notes       string                 `json:"notes,omitempty"`
	Lines       []DocumentLineResponse `json:"lines"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// DocumentListResponse lista paginada de documentos (sin líneas).
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
