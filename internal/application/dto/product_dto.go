package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock es el stock inicial.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	SKU         string           `json:"sku"`
	Category    string           `json:"category,omitempty"`
	Stock       int              `json:"stock"`
	MinStock    int              `json:"min_stock"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Supplier    string           `json:"supplier,omitempty"`
	Description string           `json:"description,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. Stock se acepta pero se descarta:
// el stock sólo cambia con movimientos.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock,omitempty"`
	MinStock    *int             `json:"min_stock"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Supplier    *string          `json:"supplier"`
	Description *string          `json:"description"`
}

// ProductResponse salida de un producto con su estado de stock.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category,omitempty"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	StockStatus string          `json:"stock_status"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Supplier    string          `json:"supplier,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductListResponse lista paginada con los indicadores de la tabla de inventario.
type ProductListResponse struct {
	Items           []ProductResponse `json:"items"`
	Page            PageResponse      `json:"page"`
	TotalStockValue decimal.Decimal   `json:"total_stock_value"`
	LowStockCount   int               `json:"low_stock_count"`
}

// PosProductResponse producto vendible en el POS.
type PosProductResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	TaxRate decimal.Decimal `json:"tax_rate"`
	Stock   int             `json:"stock"`
}
