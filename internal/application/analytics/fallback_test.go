package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/application/analytics"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func TestCustomerFallback(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	rows := []entity.CustomerFact{
		{Status: "Active", Type: "Retail", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Status: "active", Type: "Wholesale", CreatedAt: time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)},
		{Status: "Inactive", Type: "Grocery", CreatedAt: time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)},
		{Status: "", Type: "Other", CreatedAt: time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC)},
	}
	out := analytics.CustomerFallback(rows, now)
	assert.Equal(t, 4, out.TotalCustomers)
	assert.Equal(t, 2, out.ActiveCustomers)
	assert.Equal(t, 1, out.InactiveCustomers)
	assert.Equal(t, 2, out.NewThisMonth)
	assert.Equal(t, entity.CustomersByType{Retail: 1, Wholesale: 1, Grocery: 1}, out.ByType)
}

func TestInventoryFallback(t *testing.T) {
	out := analytics.InventoryFallback([]entity.ProductFact{
		{Category: "Eggs", Stock: 10, MinStock: 5, Price: d("2")},
		{Category: "", Stock: 0, MinStock: 1, Price: d("9")},
		{Category: "Eggs", Stock: 5, MinStock: 5, Price: d("1.5")},
	})
	assert.Equal(t, 3, out.TotalItems)
	assert.Equal(t, 2, out.LowStockItems)
	assert.Equal(t, 1, out.OutOfStockItems)
	assert.True(t, d("27.5").Equal(out.TotalInventoryValue))
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Eggs", out.Categories[0].Category)
	assert.Equal(t, 2, out.Categories[0].ItemCount)
	assert.Equal(t, "Uncategorized", out.Categories[1].Category)

	empty := analytics.InventoryFallback(nil)
	assert.NotNil(t, empty.Categories)
}

func TestSalesFallback_CrecimientoYHoy(t *testing.T) {
	now := time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -30)
	prevSince := now.AddDate(0, 0, -60)
	today := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	sales := []entity.SaleFact{
		{ID: "a", CreatedAt: now.Add(-time.Hour), Status: "Paid", Total: d("100")},
		{ID: "b", CreatedAt: now.AddDate(0, 0, -3), Status: "completed", Total: d("200")},
		{ID: "c", CreatedAt: now.AddDate(0, 0, -2), Status: "Pending", Total: d("999")},
		{ID: "d", CreatedAt: now.AddDate(0, 0, -45), Status: "fulfilled", Total: d("150")},
	}
	items := []entity.SaleItemFact{
		{ProductID: "p1", ProductName: "Eggs", Quantity: d("3"), Price: d("10")},
		{ProductID: "p2", ProductName: "", Quantity: d("1"), Price: d("40")},
		{ProductID: "p1", ProductName: "Eggs", Quantity: d("2"), Price: d("10")},
	}
	out := analytics.SalesFallback(sales, items, prevSince, since, today)

	assert.Equal(t, 2, out.TotalSales)
	assert.True(t, d("300").Equal(out.TotalRevenue))
	assert.True(t, d("150").Equal(out.AverageOrderValue))
	assert.Equal(t, 1, out.TodaySales)
	assert.True(t, d("100").Equal(out.TodayRevenue))
	assert.True(t, d("100").Equal(out.GrowthRate), out.GrowthRate.String())

	require.Len(t, out.TopProducts, 2)
	assert.Equal(t, "p1", out.TopProducts[0].ProductID)
	assert.True(t, d("5").Equal(out.TopProducts[0].TotalQuantity))
	assert.Equal(t, "Unknown", out.TopProducts[1].ProductName)
}

func TestSalesFallback_SinVentanaAnteriorNoHayCrecimiento(t *testing.T) {
	now := time.Now()
	out := analytics.SalesFallback(
		[]entity.SaleFact{{CreatedAt: now, Status: "paid", Total: d("10")}},
		nil, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7), now.Add(-time.Minute),
	)
	assert.True(t, out.GrowthRate.IsZero())
	assert.Empty(t, out.TopProducts)
}

func TestTopProductsByRevenue_Limite(t *testing.T) {
	items := []entity.SaleItemFact{
		{ProductID: "a", Quantity: d("1"), Price: d("1")},
		{ProductID: "b", Quantity: d("1"), Price: d("3")},
		{ProductID: "c", Quantity: d("1"), Price: d("2")},
	}
	top := analytics.TopProductsByRevenue(items, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ProductID)
	assert.Equal(t, "c", top[1].ProductID)
}

func TestFinancialFallback(t *testing.T) {
	today := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	issued := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := []entity.InvoiceFact{
		// vencida: saldo 100
		{CustomerID: "c1", DueDate: ptr(time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC)), Total: d("100"), PaidAmount: decimal.Zero},
		// vence hoy: no está vencida
		{CustomerID: "c2", DueDate: ptr(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)), Total: d("300"), PaidAmount: d("100")},
		// pagada en 3 días
		{CustomerID: "c3", IssuedAt: &issued, PaidAt: ptr(issued.Add(72 * time.Hour)), Total: d("50"), PaidAmount: d("50"),
			BalanceDue: ptr(decimal.Zero)},
	}
	out := analytics.FinancialFallback(rows, today)
	assert.True(t, d("300").Equal(out.TotalOutstanding), out.TotalOutstanding.String())
	assert.True(t, d("100").Equal(out.OverdueAmount))
	assert.Equal(t, 1, out.OverdueCustomers)
	assert.True(t, d("66.67").Equal(out.CollectionRate), out.CollectionRate.String())
	assert.True(t, d("3").Equal(out.AvgCollectionTime), out.AvgCollectionTime.String())

	none := analytics.FinancialFallback(nil, today)
	assert.True(t, d("100").Equal(none.CollectionRate))
}
