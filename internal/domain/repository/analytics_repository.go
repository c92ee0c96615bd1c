package repository

import (
	"context"
	"time"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// AnalyticsRepository lecturas de analítica. Los métodos RPC llaman a los procedimientos
// get_*; los métodos *Facts leen tablas para el cálculo de respaldo.
type AnalyticsRepository interface {
	CustomerAnalytics(ctx context.Context) (*entity.CustomerAnalytics, error)
	InventoryAnalytics(ctx context.Context) (*entity.InventoryAnalytics, error)
	SalesAnalytics(ctx context.Context, days int) (*entity.SalesAnalytics, error)
	FinancialAnalytics(ctx context.Context) (*entity.FinancialAnalytics, error)
	TopProducts(ctx context.Context, limit int) ([]entity.TopProduct, error)
	CustomerSegments(ctx context.Context) ([]entity.CustomerSegment, error)

	// ── Respaldo ──────────────────────────────────────────────────────────────

	CustomerFacts(ctx context.Context) ([]entity.CustomerFact, error)
	ProductFacts(ctx context.Context) ([]entity.ProductFact, error)
	// SaleFacts ventas con created_at >= since.
	SaleFacts(ctx context.Context, since time.Time) ([]entity.SaleFact, error)
	// SaleItemFacts líneas de ventas con created_at >= since, con nombre de producto.
	SaleItemFacts(ctx context.Context, since time.Time) ([]entity.SaleItemFact, error)
	InvoiceFacts(ctx context.Context) ([]entity.InvoiceFact, error)

	// ── Acciones rápidas ──────────────────────────────────────────────────────

	BulkUpdateLowStock(ctx context.Context) error
	MarkAllBalancesPaid(ctx context.Context) error
}
