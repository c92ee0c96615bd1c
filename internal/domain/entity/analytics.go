package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modelos de lectura de analítica. Llevan tags json porque los procedimientos
// get_*_analytics devuelven un documento JSON que se decodifica tal cual.

// CustomerAnalytics conteos de clientes.
type CustomerAnalytics struct {
	TotalCustomers    int             `json:"total_customers"`
	ActiveCustomers   int             `json:"active_customers"`
	InactiveCustomers int             `json:"inactive_customers"`
	NewThisMonth      int             `json:"new_this_month"`
	ByType            CustomersByType `json:"by_type"`
}

// CustomersByType clientes por tipo.
type CustomersByType struct {
	Retail     int `json:"retail"`
	Wholesale  int `json:"wholesale"`
	Restaurant int `json:"restaurant"`
	Grocery    int `json:"grocery"`
}

// InventoryAnalytics valorización y alertas de inventario.
type InventoryAnalytics struct {
	TotalItems          int                 `json:"total_items"`
	LowStockItems       int                 `json:"low_stock_items"`
	OutOfStockItems     int                 `json:"out_of_stock_items"`
	TotalInventoryValue decimal.Decimal     `json:"total_inventory_value"`
	Categories          []CategoryInventory `json:"categories"`
}

// CategoryInventory agregado por categoría.
type CategoryInventory struct {
	Category   string          `json:"category"`
	ItemCount  int             `json:"item_count"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// SalesAnalytics ventas del período y crecimiento frente al período anterior.
type SalesAnalytics struct {
	TotalSales        int             `json:"total_sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TodaySales        int             `json:"today_sales"`
	TodayRevenue      decimal.Decimal `json:"today_revenue"`
	GrowthRate        decimal.Decimal `json:"growth_rate"`
	TopProducts       []TopProduct    `json:"top_products"`
}

// FinancialAnalytics cartera y cobranza.
type FinancialAnalytics struct {
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	OverdueCustomers  int             `json:"overdue_customers"`
	CollectionRate    decimal.Decimal `json:"collection_rate"`
	AvgCollectionTime decimal.Decimal `json:"avg_collection_time"`
}

// TopProduct producto más vendido.
type TopProduct struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// CustomerSegment segmento de clientes.
type CustomerSegment struct {
	Segment       string          `json:"segment"`
	CustomerCount int             `json:"customer_count"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// Filas crudas que usan los cálculos de respaldo cuando el RPC falla.

// CustomerFact cliente reducido para los conteos.
type CustomerFact struct {
	Status    string
	Type      string
	CreatedAt time.Time
}

// ProductFact producto reducido para la valorización.
type ProductFact struct {
	Category string // vacío = sin categoría
	Stock    int
	MinStock int
	Price    decimal.Decimal
}

// SaleFact venta reducida para ingresos y crecimiento.
type SaleFact struct {
	ID        string
	CreatedAt time.Time
	Status    string
	Total     decimal.Decimal
}

// SaleItemFact línea reducida para el ranking de productos.
type SaleItemFact struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// InvoiceFact factura reducida para cartera y cobranza.
type InvoiceFact struct {
	CustomerID string
	IssuedAt   *time.Time
	DueDate    *time.Time
	BalanceDue *decimal.Decimal // nil -> total - paid_amount
	Total      decimal.Decimal
	PaidAmount decimal.Decimal
	PaidAt     *time.Time
	CreatedAt  *time.Time
}
