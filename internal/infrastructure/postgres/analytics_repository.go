package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y acciones rápidas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// rpcObject llama a un procedimiento que devuelve un documento (json o fila) y lo decodifica en dst.
// Devuelve false si el procedimiento no devolvió nada.
func (r *AnalyticsRepo) rpcObject(ctx context.Context, sql string, dst any, args ...any) (bool, error) {
	var raw []byte
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

// CustomerAnalytics get_customer_analytics; nil si no hay datos.
func (r *AnalyticsRepo) CustomerAnalytics(ctx context.Context) (*entity.CustomerAnalytics, error) {
	var out entity.CustomerAnalytics
	ok, err := r.rpcObject(ctx, `SELECT to_jsonb(t) FROM get_customer_analytics() t`, &out)
	if err != nil {
		return nil, fmt.Errorf("get_customer_analytics: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &out, nil
}

// InventoryAnalytics get_inventory_analytics; nil si no hay datos.
func (r *AnalyticsRepo) InventoryAnalytics(ctx context.Context) (*entity.InventoryAnalytics, error) {
	var out entity.InventoryAnalytics
	ok, err := r.rpcObject(ctx, `SELECT to_jsonb(t) FROM get_inventory_analytics() t`, &out)
	if err != nil {
		return nil, fmt.Errorf("get_inventory_analytics: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &out, nil
}

// SalesAnalytics get_sales_analytics(p_days); nil si no hay datos.
func (r *AnalyticsRepo) SalesAnalytics(ctx context.Context, days int) (*entity.SalesAnalytics, error) {
	var out entity.SalesAnalytics
	ok, err := r.rpcObject(ctx, `SELECT to_jsonb(t) FROM get_sales_analytics(p_days => $1) t`, &out, days)
	if err != nil {
		return nil, fmt.Errorf("get_sales_analytics: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &out, nil
}

// FinancialAnalytics get_financial_analytics; nil si no hay datos.
func (r *AnalyticsRepo) FinancialAnalytics(ctx context.Context) (*entity.FinancialAnalytics, error) {
	var out entity.FinancialAnalytics
	ok, err := r.rpcObject(ctx, `SELECT to_jsonb(t) FROM get_financial_analytics() t`, &out)
	if err != nil {
		return nil, fmt.Errorf("get_financial_analytics: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &out, nil
}

// TopProducts get_top_products(p_limit).
func (r *AnalyticsRepo) TopProducts(ctx context.Context, limit int) ([]entity.TopProduct, error) {
	out := make([]entity.TopProduct, 0)
	const sql = `SELECT COALESCE(jsonb_agg(to_jsonb(t)), '[]'::jsonb) FROM get_top_products(p_limit => $1) t`
	if _, err := r.rpcObject(ctx, sql, &out, limit); err != nil {
		return nil, fmt.Errorf("get_top_products: %w", err)
	}
	return out, nil
}

// CustomerSegments get_customer_segments.
func (r *AnalyticsRepo) CustomerSegments(ctx context.Context) ([]entity.CustomerSegment, error) {
	out := make([]entity.CustomerSegment, 0)
	const sql = `SELECT COALESCE(jsonb_agg(to_jsonb(t)), '[]'::jsonb) FROM get_customer_segments() t`
	if _, err := r.rpcObject(ctx, sql, &out); err != nil {
		return nil, fmt.Errorf("get_customer_segments: %w", err)
	}
	return out, nil
}

// ── Respaldo ──────────────────────────────────────────────────────────────────

// CustomerFacts estado, tipo y alta de todos los clientes.
func (r *AnalyticsRepo) CustomerFacts(ctx context.Context) ([]entity.CustomerFact, error) {
	rows, err := r.q.Query(ctx, `SELECT COALESCE(status, ''), COALESCE(type, ''), created_at FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("customer facts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.CustomerFact, error) {
		var f entity.CustomerFact
		err := row.Scan(&f.Status, &f.Type, &f.CreatedAt)
		return f, err
	})
}

// ProductFacts categoría, stock, mínimo y precio de todos los productos.
func (r *AnalyticsRepo) ProductFacts(ctx context.Context) ([]entity.ProductFact, error) {
	rows, err := r.q.Query(ctx, `SELECT COALESCE(category, ''), stock, min_stock, price FROM products`)
	if err != nil {
		return nil, fmt.Errorf("product facts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.ProductFact, error) {
		var f entity.ProductFact
		err := row.Scan(&f.Category, &f.Stock, &f.MinStock, &f.Price)
		return f, err
	})
}

// SaleFacts ventas desde since.
func (r *AnalyticsRepo) SaleFacts(ctx context.Context, since time.Time) ([]entity.SaleFact, error) {
	const sql = `
		SELECT id, created_at, COALESCE(status, ''), COALESCE(total, 0)
		FROM sales WHERE created_at >= $1`
	rows, err := r.q.Query(ctx, sql, since)
	if err != nil {
		return nil, fmt.Errorf("sale facts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SaleFact, error) {
		var f entity.SaleFact
		err := row.Scan(&f.ID, &f.CreatedAt, &f.Status, &f.Total)
		return f, err
	})
}

// SaleItemFacts líneas vendidas desde since con el nombre actual del producto.
func (r *AnalyticsRepo) SaleItemFacts(ctx context.Context, since time.Time) ([]entity.SaleItemFact, error) {
	const sql = `
		SELECT i.product_id, COALESCE(p.name, i.product_name, 'Unknown'), i.quantity, COALESCE(i.price, 0)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		LEFT JOIN products p ON p.id = i.product_id
		WHERE s.created_at >= $1`
	rows, err := r.q.Query(ctx, sql, since)
	if err != nil {
		return nil, fmt.Errorf("sale item facts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SaleItemFact, error) {
		var f entity.SaleItemFact
		err := row.Scan(&f.ProductID, &f.ProductName, &f.Quantity, &f.Price)
		return f, err
	})
}

// InvoiceFacts datos de cartera de todas las facturas.
func (r *AnalyticsRepo) InvoiceFacts(ctx context.Context) ([]entity.InvoiceFact, error) {
	const sql = `
		SELECT COALESCE(customer_id::text, ''), issued_at, due_date, balance_due,
		       COALESCE(total, 0), COALESCE(paid_amount, 0), paid_at, created_at
		FROM invoices`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("invoice facts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.InvoiceFact, error) {
		var f entity.InvoiceFact
		err := row.Scan(&f.CustomerID, &f.IssuedAt, &f.DueDate, &f.BalanceDue, &f.Total, &f.PaidAmount,
			&f.PaidAt, &f.CreatedAt)
		return f, err
	})
}

// ── Acciones rápidas ──────────────────────────────────────────────────────────

// BulkUpdateLowStock bulk_update_low_stock.
func (r *AnalyticsRepo) BulkUpdateLowStock(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT bulk_update_low_stock()`); err != nil {
		return mapWriteError("bulk_update_low_stock", err)
	}
	return nil
}

// MarkAllBalancesPaid mark_all_balances_paid.
func (r *AnalyticsRepo) MarkAllBalancesPaid(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT mark_all_balances_paid()`); err != nil {
		return mapWriteError("mark_all_balances_paid", err)
	}
	return nil
}
