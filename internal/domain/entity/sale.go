package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale fila de venta tal como la devuelve sales_search (incluye pagado y saldo).
type Sale struct {
	ID           string
	CreatedAt    time.Time
	CustomerID   string // vacío = cliente de mostrador
	CustomerName string
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	Total        decimal.Decimal
	ItemCount    int
	PaidTotal    decimal.Decimal
	BalanceDue   decimal.Decimal
}

// SaleItem línea de venta. Price y TaxRate son los del momento de la venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
}

// LineTotal precio × cantidad, sin impuesto.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SalesMetrics resumen de sales_metrics(p_days).
type SalesMetrics struct {
	SalesCount     int
	Revenue        decimal.Decimal
	AOV            decimal.Decimal
	SalesToday     int
	RevenueToday   decimal.Decimal
	TopProductName string
	TopProductQty  int
}

// CheckoutLine línea que se envía al backend: sólo producto y cantidad.
type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutResult totales autoritativos calculados por el backend.
type CheckoutResult struct {
	SaleID    string
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}
