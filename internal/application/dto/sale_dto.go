package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleResponse venta en listados.
type SaleResponse struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	CustomerID   string          `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"item_count"`
	PaidTotal    decimal.Decimal `json:"paid_total"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleItemResponse línea de una venta.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SalesMetricsResponse resumen de sales_metrics.
type SalesMetricsResponse struct {
	Days           int             `json:"days"`
	SalesCount     int             `json:"sales_count"`
	Revenue        decimal.Decimal `json:"revenue"`
	AOV            decimal.Decimal `json:"aov"`
	SalesToday     int             `json:"sales_today"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	TopProductName string          `json:"top_product_name,omitempty"`
	TopProductQty  int             `json:"top_product_qty"`
}
