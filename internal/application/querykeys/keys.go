// Package querykeys nombra las vistas cacheadas y agrupa qué vistas invalida cada mutación.
package querykeys

import (
	"time"

	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
)

// Raíces de clave. Las claves concretas añaden los parámetros: ["products", q, limit, offset, low].
var (
	Customers           = querycache.K("customers")
	PosCustomers        = querycache.K("pos_customers")
	Products            = querycache.K("products")
	PosProducts         = querycache.K("pos_products")
	StockMovements      = querycache.K("stock-movements")
	Sales               = querycache.K("sales")
	SaleItems           = querycache.K("sale_items")
	SalesMetrics        = querycache.K("sales_metrics")
	SalePayments        = querycache.K("sale_payments")
	SalePaymentSummary  = querycache.K("sale_payment_summary")
	CustomerBalance     = querycache.K("customer_balance")
	OutstandingBalances = querycache.K("outstanding_balances")
	CustomerAnalytics   = querycache.K("customer_analytics")
	InventoryAnalytics  = querycache.K("inventory_analytics")
	SalesAnalytics      = querycache.K("sales_analytics")
	FinancialAnalytics  = querycache.K("financial_analytics")
	TopProducts         = querycache.K("top_products")
	CustomerSegments    = querycache.K("customer_segments")
	Invoices            = querycache.K("invoices")
)

// Vigencias por tipo de vista.
const (
	POSStale      = 20 * time.Second
	AnalyticsSlow = 60 * time.Second
)

// With agrega segmentos a una raíz sin modificarla.
func With(root querycache.Key, parts ...any) querycache.Key {
	k := make(querycache.Key, 0, len(root)+len(parts))
	k = append(k, root...)
	return append(k, querycache.K(parts...)...)
}

// CustomerMutation vistas afectadas por alta, edición o baja de clientes.
func CustomerMutation() []querycache.Key {
	return []querycache.Key{Customers, PosCustomers, CustomerAnalytics}
}

// StockMutation vistas afectadas por un movimiento de stock.
func StockMutation() []querycache.Key {
	return []querycache.Key{Products, PosProducts, StockMovements, InventoryAnalytics}
}

// CheckoutMutation vistas afectadas por un cobro. customerID vacío (mostrador) no toca saldos de cliente.
func CheckoutMutation(saleID, customerID string) []querycache.Key {
	keys := []querycache.Key{
		Products, PosProducts, StockMovements, Sales, SalesMetrics,
		With(SalePaymentSummary, saleID), OutstandingBalances,
		InventoryAnalytics, SalesAnalytics, TopProducts, FinancialAnalytics,
		// total_orders y total_spent del listado y los segmentos dependen de las ventas.
		Customers, CustomerSegments,
	}
	if customerID != "" {
		keys = append(keys, With(CustomerBalance, customerID))
	}
	return keys
}

// PaymentMutation vistas afectadas por un abono.
func PaymentMutation(saleID, customerID string) []querycache.Key {
	keys := []querycache.Key{
		With(SalePayments, saleID), With(SalePaymentSummary, saleID),
		Sales, OutstandingBalances, FinancialAnalytics,
	}
	if customerID != "" {
		keys = append(keys, With(CustomerBalance, customerID))
	}
	return keys
}
