package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/application/fakes"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

var errRPC = errors.New("function get_x() does not exist")

func newTestUseCase(repo *fakes.Analytics, now time.Time) (*AnalyticsUseCase, *querycache.Cache) {
	cache := querycache.New()
	uc := NewAnalyticsUseCase(repo, cache, time.Minute, time.UTC, logger.Nop())
	uc.now = func() time.Time { return now }
	return uc, cache
}

func TestCustomers_UsaRPCSiResponde(t *testing.T) {
	repo := &fakes.Analytics{Customer: &entity.CustomerAnalytics{TotalCustomers: 42}}
	uc, _ := newTestUseCase(repo, time.Now())

	out, err := uc.Customers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, out.TotalCustomers)
	assert.Zero(t, repo.Count("CustomerFacts"))
}

func TestCustomers_RespaldoSiRPCFallaODevuelveNada(t *testing.T) {
	rows := []entity.CustomerFact{{Status: "Active", Type: "Retail", CreatedAt: time.Now()}}
	for name, repo := range map[string]*fakes.Analytics{
		"error": {Err: fakes.Errors{"CustomerAnalytics": errRPC}, CustomerRows: rows},
		"nil":   {CustomerRows: rows},
	} {
		t.Run(name, func(t *testing.T) {
			uc, _ := newTestUseCase(repo, time.Now())
			out, err := uc.Customers(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, out.ActiveCustomers)
			assert.Equal(t, 1, repo.Count("CustomerFacts"))
		})
	}
}

func TestInventory_RespaldoFallaTambien(t *testing.T) {
	repo := &fakes.Analytics{Err: fakes.Errors{"InventoryAnalytics": errRPC, "ProductFacts": errors.New("down")}}
	uc, _ := newTestUseCase(repo, time.Now())
	_, err := uc.Inventory(context.Background())
	assert.Error(t, err)
}

func TestSales_VentanasDelRespaldo(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	repo := &fakes.Analytics{
		Err: fakes.Errors{"SalesAnalytics": errRPC, "SaleItemFacts": errors.New("timeout")},
		SaleRows: []entity.SaleFact{
			{CreatedAt: now.Add(-2 * time.Hour), Status: "paid", Total: decimal.NewFromInt(80)},
			{CreatedAt: now.AddDate(0, 0, -10), Status: "paid", Total: decimal.NewFromInt(40)},
		},
	}
	uc, _ := newTestUseCase(repo, now)

	out, err := uc.Sales(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalSales)
	assert.Equal(t, 1, out.TodaySales)
	assert.True(t, decimal.NewFromInt(100).Equal(out.GrowthRate), out.GrowthRate.String())
	assert.NotNil(t, out.TopProducts)
}

func TestTopProducts_ListaVaciaSiFalla(t *testing.T) {
	repo := &fakes.Analytics{Err: fakes.Errors{"TopProducts": errRPC, "CustomerSegments": errRPC}}
	uc, _ := newTestUseCase(repo, time.Now())

	top, err := uc.TopProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, top)
	assert.NotNil(t, top)

	seg, err := uc.CustomerSegments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, seg)
}

func TestDashboard_CuatroVistas(t *testing.T) {
	repo := &fakes.Analytics{
		Customer:  &entity.CustomerAnalytics{TotalCustomers: 3},
		Inventory: &entity.InventoryAnalytics{TotalItems: 9},
		SalesA:    &entity.SalesAnalytics{TotalSales: 5},
		Financial: &entity.FinancialAnalytics{OverdueCustomers: 2},
	}
	uc, _ := newTestUseCase(repo, time.Now())

	out, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, out.Customers.TotalCustomers)
	assert.Equal(t, 9, out.Inventory.TotalItems)
	assert.NotNil(t, out.Inventory.Categories)
	assert.Equal(t, 5, out.Sales.TotalSales)
	assert.Equal(t, 2, out.Financial.OverdueCustomers)
}

func TestQuickActions_Invalidan(t *testing.T) {
	repo := &fakes.Analytics{Financial: &entity.FinancialAnalytics{}, Inventory: &entity.InventoryAnalytics{}}
	uc, cache := newTestUseCase(repo, time.Now())
	ctx := context.Background()

	_, err := uc.Financial(ctx)
	require.NoError(t, err)
	_, err = uc.Inventory(ctx)
	require.NoError(t, err)

	require.NoError(t, uc.MarkAllBalancesPaid(ctx))
	_, err = uc.Financial(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Count("FinancialAnalytics"))

	_, err = uc.Inventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Count("InventoryAnalytics"), "pagar saldos no toca inventario")

	require.NoError(t, uc.BulkUpdateLowStock(ctx))
	for _, e := range cache.Entries(func(k querycache.Key) bool { return k.HasPrefix(querykeys.InventoryAnalytics) }) {
		assert.True(t, e.Stale)
	}

	repo.Err = fakes.Errors{"MarkAllBalancesPaid": errors.New("permission denied")}
	assert.Error(t, uc.MarkAllBalancesPaid(ctx))
}

func TestRegisterRefresh_CargaVistasDelPanel(t *testing.T) {
	repo := &fakes.Analytics{
		Customer:  &entity.CustomerAnalytics{},
		Inventory: &entity.InventoryAnalytics{},
		SalesA:    &entity.SalesAnalytics{},
		Financial: &entity.FinancialAnalytics{},
	}
	uc, cache := newTestUseCase(repo, time.Now())
	r := querycache.NewRefresher(cache, time.Hour, logger.Nop())
	uc.RegisterRefresh(r)

	r.RefreshAll(context.Background())
	assert.Equal(t, 1, repo.Count("CustomerAnalytics"))
	assert.Equal(t, 1, repo.Count("SalesAnalytics"))
	assert.Equal(t, 1, repo.Count("TopProducts"))
	assert.Equal(t, 1, repo.Count("CustomerSegments"))

	_, err := uc.Sales(context.Background(), DefaultSalesDays)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Count("SalesAnalytics"), "la vista precargada sale del cache")

	_, err = uc.TopProducts(context.Background(), DefaultTopLimit)
	require.NoError(t, err)
	_, err = uc.CustomerSegments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Count("TopProducts"))
	assert.Equal(t, 1, repo.Count("CustomerSegments"))
}
