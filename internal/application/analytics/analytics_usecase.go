// Package analytics contiene los casos de uso del panel de analítica: clientes, inventario,
// ventas y cartera, con cálculo de respaldo cuando los procedimientos del backend fallan.
package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

const (
	DefaultSalesDays = 30
	DefaultTopLimit  = 5
)

// AnalyticsUseCase lecturas de analítica cacheadas y acciones rápidas.
type AnalyticsUseCase struct {
	repo  repository.AnalyticsRepository
	cache *querycache.Cache
	stale time.Duration
	loc   *time.Location
	now   func() time.Time
	log   *logger.Logger
}

// NewAnalyticsUseCase construye el caso de uso. loc define "hoy" para ventas y vencimientos.
func NewAnalyticsUseCase(repo repository.AnalyticsRepository, cache *querycache.Cache, stale time.Duration, loc *time.Location, log *logger.Logger) *AnalyticsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsUseCase{repo: repo, cache: cache, stale: stale, loc: loc, now: time.Now, log: log.Component("analytics")}
}

// Customers get_customer_analytics con respaldo desde la tabla customers.
func (uc *AnalyticsUseCase) Customers(ctx context.Context) (*entity.CustomerAnalytics, error) {
	return querycache.Get(ctx, uc.cache, querykeys.CustomerAnalytics, uc.stale, uc.loadCustomers)
}

// Inventory get_inventory_analytics con respaldo desde la tabla products.
func (uc *AnalyticsUseCase) Inventory(ctx context.Context) (*entity.InventoryAnalytics, error) {
	return querycache.Get(ctx, uc.cache, querykeys.InventoryAnalytics, uc.stale, uc.loadInventory)
}

// Sales get_sales_analytics(days) con respaldo desde sales y sale_items.
func (uc *AnalyticsUseCase) Sales(ctx context.Context, days int) (*entity.SalesAnalytics, error) {
	if days <= 0 {
		days = DefaultSalesDays
	}
	return querycache.Get(ctx, uc.cache, querykeys.With(querykeys.SalesAnalytics, days), uc.stale,
		func(ctx context.Context) (*entity.SalesAnalytics, error) { return uc.loadSales(ctx, days) })
}

// Financial get_financial_analytics con respaldo desde invoices.
func (uc *AnalyticsUseCase) Financial(ctx context.Context) (*entity.FinancialAnalytics, error) {
	return querycache.Get(ctx, uc.cache, querykeys.FinancialAnalytics, uc.stale, uc.loadFinancial)
}

// TopProducts get_top_products(limit); lista vacía si el procedimiento falla.
func (uc *AnalyticsUseCase) TopProducts(ctx context.Context, limit int) ([]entity.TopProduct, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return querycache.Get(ctx, uc.cache, querykeys.With(querykeys.TopProducts, limit), querykeys.AnalyticsSlow,
		func(ctx context.Context) ([]entity.TopProduct, error) { return uc.loadTopProducts(ctx, limit) })
}

// CustomerSegments get_customer_segments; lista vacía si el procedimiento falla.
func (uc *AnalyticsUseCase) CustomerSegments(ctx context.Context) ([]entity.CustomerSegment, error) {
	return querycache.Get(ctx, uc.cache, querykeys.CustomerSegments, querykeys.AnalyticsSlow, uc.loadSegments)
}

// BulkUpdateLowStock repone en bloque los productos bajo mínimo (bulk_update_low_stock).
func (uc *AnalyticsUseCase) BulkUpdateLowStock(ctx context.Context) error {
	if err := uc.repo.BulkUpdateLowStock(ctx); err != nil {
		return err
	}
	uc.cache.Invalidate(querykeys.InventoryAnalytics, querykeys.Products, querykeys.PosProducts, querykeys.StockMovements)
	uc.log.Info().Msg("reposición masiva de stock bajo")
	return nil
}

// MarkAllBalancesPaid salda todas las cuentas pendientes (mark_all_balances_paid).
func (uc *AnalyticsUseCase) MarkAllBalancesPaid(ctx context.Context) error {
	if err := uc.repo.MarkAllBalancesPaid(ctx); err != nil {
		return err
	}
	uc.cache.Invalidate(querykeys.FinancialAnalytics, querykeys.OutstandingBalances, querykeys.Invoices,
		querykeys.CustomerBalance, querykeys.SalePaymentSummary, querykeys.Sales)
	uc.log.Info().Msg("todas las cuentas marcadas como pagadas")
	return nil
}

// RegisterRefresh registra las vistas del panel en el refresco periódico.
func (uc *AnalyticsUseCase) RegisterRefresh(r *querycache.Refresher) {
	r.Register(querykeys.CustomerAnalytics, func(ctx context.Context) (any, error) { return uc.loadCustomers(ctx) })
	r.Register(querykeys.InventoryAnalytics, func(ctx context.Context) (any, error) { return uc.loadInventory(ctx) })
	r.Register(querykeys.With(querykeys.SalesAnalytics, DefaultSalesDays), func(ctx context.Context) (any, error) {
		return uc.loadSales(ctx, DefaultSalesDays)
	})
	r.Register(querykeys.FinancialAnalytics, func(ctx context.Context) (any, error) { return uc.loadFinancial(ctx) })
	r.Register(querykeys.With(querykeys.TopProducts, DefaultTopLimit), func(ctx context.Context) (any, error) {
		return uc.loadTopProducts(ctx, DefaultTopLimit)
	})
	r.Register(querykeys.CustomerSegments, func(ctx context.Context) (any, error) { return uc.loadSegments(ctx) })
}

// ── Carga: procedimiento primero, respaldo después ────────────────────────────

func (uc *AnalyticsUseCase) loadCustomers(ctx context.Context) (*entity.CustomerAnalytics, error) {
	a, err := uc.repo.CustomerAnalytics(ctx)
	if err == nil && a != nil {
		return a, nil
	}
	uc.fallbackWarn("get_customer_analytics", err)
	rows, err := uc.repo.CustomerFacts(ctx)
	if err != nil {
		return nil, err
	}
	out := CustomerFallback(rows, uc.now())
	return &out, nil
}

func (uc *AnalyticsUseCase) loadInventory(ctx context.Context) (*entity.InventoryAnalytics, error) {
	a, err := uc.repo.InventoryAnalytics(ctx)
	if err == nil && a != nil {
		if a.Categories == nil {
			a.Categories = []entity.CategoryInventory{}
		}
		return a, nil
	}
	uc.fallbackWarn("get_inventory_analytics", err)
	rows, err := uc.repo.ProductFacts(ctx)
	if err != nil {
		return nil, err
	}
	out := InventoryFallback(rows)
	return &out, nil
}

func (uc *AnalyticsUseCase) loadSales(ctx context.Context, days int) (*entity.SalesAnalytics, error) {
	a, err := uc.repo.SalesAnalytics(ctx, days)
	if err == nil && a != nil {
		if a.TopProducts == nil {
			a.TopProducts = []entity.TopProduct{}
		}
		return a, nil
	}
	uc.fallbackWarn("get_sales_analytics", err)

	now := uc.now()
	window := time.Duration(days) * 24 * time.Hour
	since := now.Add(-window)
	prevSince := now.Add(-2 * window)
	local := now.In(uc.loc)
	todayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, uc.loc)

	sales, err := uc.repo.SaleFacts(ctx, prevSince)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.SaleItemFacts(ctx, since)
	if err != nil {
		uc.log.Warn().Err(err).Msg("líneas de venta no disponibles; top de productos vacío")
		items = nil
	}
	out := SalesFallback(sales, items, prevSince, since, todayStart)
	return &out, nil
}

func (uc *AnalyticsUseCase) loadFinancial(ctx context.Context) (*entity.FinancialAnalytics, error) {
	a, err := uc.repo.FinancialAnalytics(ctx)
	if err == nil && a != nil {
		return a, nil
	}
	uc.fallbackWarn("get_financial_analytics", err)
	rows, err := uc.repo.InvoiceFacts(ctx)
	if err != nil {
		return nil, err
	}
	out := FinancialFallback(rows, uc.now().In(uc.loc))
	return &out, nil
}

func (uc *AnalyticsUseCase) loadTopProducts(ctx context.Context, limit int) ([]entity.TopProduct, error) {
	list, err := uc.repo.TopProducts(ctx, limit)
	if err != nil {
		uc.log.Warn().Err(err).Msg("get_top_products falló; lista vacía")
		return []entity.TopProduct{}, nil
	}
	return list, nil
}

func (uc *AnalyticsUseCase) loadSegments(ctx context.Context) ([]entity.CustomerSegment, error) {
	list, err := uc.repo.CustomerSegments(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("get_customer_segments falló; lista vacía")
		return []entity.CustomerSegment{}, nil
	}
	return list, nil
}

func (uc *AnalyticsUseCase) fallbackWarn(proc string, err error) {
	ev := uc.log.Warn().Str("procedure", proc)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("usando cálculo de respaldo")
}
