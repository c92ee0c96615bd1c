package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// Cálculos de respaldo: reproducen en Go los agregados de los procedimientos get_*_analytics
// a partir de filas de tablas, para cuando el procedimiento falla o no devuelve datos.

const (
	uncategorized  = "Uncategorized"
	unknownProduct = "Unknown"
	topSalesLimit  = 10
)

var (
	hundred = decimal.NewFromInt(100)
	dayLen  = decimal.NewFromInt(int64(24 * time.Hour / time.Second))
)

// completedStatuses estados de venta que cuentan como ingreso (comparación sin mayúsculas).
var completedStatuses = map[string]bool{"paid": true, "completed": true, "complete": true, "fulfilled": true}

func isCompleted(status string) bool { return completedStatuses[strings.ToLower(status)] }

// CustomerFallback conteos por estado y tipo; new_this_month compara año y mes UTC.
func CustomerFallback(rows []entity.CustomerFact, now time.Time) entity.CustomerAnalytics {
	y, m, _ := now.UTC().Date()
	out := entity.CustomerAnalytics{TotalCustomers: len(rows)}
	for _, c := range rows {
		switch strings.ToLower(c.Status) {
		case "active":
			out.ActiveCustomers++
		case "inactive":
			out.InactiveCustomers++
		}
		switch strings.ToLower(c.Type) {
		case "retail":
			out.ByType.Retail++
		case "wholesale":
			out.ByType.Wholesale++
		case "restaurant":
			out.ByType.Restaurant++
		case "grocery":
			out.ByType.Grocery++
		}
		cy, cm, _ := c.CreatedAt.UTC().Date()
		if cy == y && cm == m {
			out.NewThisMonth++
		}
	}
	return out
}

// InventoryFallback valorización total y por categoría (en orden de primera aparición).
// Bajo stock: stock <= min_stock; sin stock: stock == 0.
func InventoryFallback(rows []entity.ProductFact) entity.InventoryAnalytics {
	out := entity.InventoryAnalytics{TotalItems: len(rows), TotalInventoryValue: decimal.Zero}
	index := make(map[string]int)
	for _, p := range rows {
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
		out.TotalInventoryValue = out.TotalInventoryValue.Add(value)
		if p.Stock <= p.MinStock {
			out.LowStockItems++
		}
		if p.Stock == 0 {
			out.OutOfStockItems++
		}
		cat := p.Category
		if cat == "" {
			cat = uncategorized
		}
		i, ok := index[cat]
		if !ok {
			i = len(out.Categories)
			index[cat] = i
			out.Categories = append(out.Categories, entity.CategoryInventory{Category: cat, TotalValue: decimal.Zero})
		}
		out.Categories[i].ItemCount++
		out.Categories[i].TotalValue = out.Categories[i].TotalValue.Add(value)
	}
	if out.Categories == nil {
		out.Categories = []entity.CategoryInventory{}
	}
	return out
}

// SalesFallback ventas completadas desde since, ventas de hoy (desde todayStart), crecimiento
// frente a la ventana anterior [prevSince, since) y top 10 productos por ingreso.
func SalesFallback(sales []entity.SaleFact, items []entity.SaleItemFact, prevSince, since, todayStart time.Time) entity.SalesAnalytics {
	out := entity.SalesAnalytics{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TodayRevenue:      decimal.Zero,
		GrowthRate:        decimal.Zero,
	}
	prevRevenue := decimal.Zero
	for _, s := range sales {
		if !isCompleted(s.Status) {
			continue
		}
		switch {
		case !s.CreatedAt.Before(since):
			out.TotalSales++
			out.TotalRevenue = out.TotalRevenue.Add(s.Total)
			if !s.CreatedAt.Before(todayStart) {
				out.TodaySales++
				out.TodayRevenue = out.TodayRevenue.Add(s.Total)
			}
		case !s.CreatedAt.Before(prevSince):
			prevRevenue = prevRevenue.Add(s.Total)
		}
	}
	if out.TotalSales > 0 {
		out.AverageOrderValue = out.TotalRevenue.Div(decimal.NewFromInt(int64(out.TotalSales)))
	}
	if prevRevenue.IsPositive() {
		out.GrowthRate = out.TotalRevenue.Sub(prevRevenue).Div(prevRevenue).Mul(hundred)
	}
	out.TopProducts = TopProductsByRevenue(items, topSalesLimit)
	return out
}

// TopProductsByRevenue agrega cantidad e ingreso por producto y devuelve los limit mayores por ingreso.
func TopProductsByRevenue(items []entity.SaleItemFact, limit int) []entity.TopProduct {
	index := make(map[string]int)
	agg := make([]entity.TopProduct, 0)
	for _, it := range items {
		i, ok := index[it.ProductID]
		if !ok {
			name := it.ProductName
			if name == "" {
				name = unknownProduct
			}
			i = len(agg)
			index[it.ProductID] = i
			agg = append(agg, entity.TopProduct{
				ProductID: it.ProductID, ProductName: name,
				TotalQuantity: decimal.Zero, TotalRevenue: decimal.Zero,
			})
		}
		agg[i].TotalQuantity = agg[i].TotalQuantity.Add(it.Quantity)
		agg[i].TotalRevenue = agg[i].TotalRevenue.Add(it.Quantity.Mul(it.Price))
	}
	sort.SliceStable(agg, func(a, b int) bool { return agg[a].TotalRevenue.GreaterThan(agg[b].TotalRevenue) })
	if len(agg) > limit {
		agg = agg[:limit]
	}
	return agg
}

// FinancialFallback cartera a partir de facturas. Vencida: saldo > 0 y vencimiento anterior a today
// (fecha local del comercio). Tasa de cobro = (cartera - vencido) / cartera × 100, o 100 sin cartera.
// Tiempo medio de cobro: días entre emisión (o alta) y pago de las facturas pagadas.
func FinancialFallback(rows []entity.InvoiceFact, today time.Time) entity.FinancialAnalytics {
	out := entity.FinancialAnalytics{
		TotalOutstanding:  decimal.Zero,
		OverdueAmount:     decimal.Zero,
		CollectionRate:    hundred,
		AvgCollectionTime: decimal.Zero,
	}
	todayDate := entity.DateOnly(today)
	overdueCustomers := make(map[string]struct{})
	paidDays := decimal.Zero
	paidCount := 0

	for _, r := range rows {
		outstanding := decimal.Max(r.Total.Sub(r.PaidAmount), decimal.Zero)
		if r.BalanceDue != nil {
			outstanding = *r.BalanceDue
		}
		out.TotalOutstanding = out.TotalOutstanding.Add(outstanding)
		if outstanding.IsPositive() && r.DueDate != nil && entity.DateOnly(*r.DueDate).Before(todayDate) {
			out.OverdueAmount = out.OverdueAmount.Add(outstanding)
			overdueCustomers[r.CustomerID] = struct{}{}
		}
		if r.PaidAt != nil {
			issued := *r.PaidAt
			switch {
			case r.IssuedAt != nil:
				issued = *r.IssuedAt
			case r.CreatedAt != nil:
				issued = *r.CreatedAt
			}
			secs := decimal.NewFromFloat(r.PaidAt.Sub(issued).Seconds())
			paidDays = paidDays.Add(decimal.Max(secs.Div(dayLen), decimal.Zero))
			paidCount++
		}
	}
	out.OverdueCustomers = len(overdueCustomers)
	if out.TotalOutstanding.IsPositive() {
		out.CollectionRate = out.TotalOutstanding.Sub(out.OverdueAmount).Div(out.TotalOutstanding).Mul(hundred).Round(2)
	}
	if paidCount > 0 {
		out.AvgCollectionTime = paidDays.Div(decimal.NewFromInt(int64(paidCount))).Round(2)
	}
	return out
}
