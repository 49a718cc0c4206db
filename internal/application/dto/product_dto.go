package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string           `json:"sku" validate:"required,min=1,max=50"`
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	TracksStock bool             `json:"tracks_stock"`
	UnitMeasure string           `json:"unit_measure"`
	Price       decimal.Decimal  `json:"price"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	MaxStock    *decimal.Decimal `json:"max_stock,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	UnitMeasure *string          `json:"unit_measure"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string           `json:"id"`
	CompanyID   string           `json:"company_id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	TracksStock bool             `json:"tracks_stock"`
	UnitMeasure string           `json:"unit_measure"`
	Price       decimal.Decimal  `json:"price"`
	MinStock    *decimal.Decimal `json:"min_stock,omitempty"`
	MaxStock    *decimal.Decimal `json:"max_stock,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
