package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas: cobro vía pos_checkout*, búsqueda vía sales_search, líneas desde sale_items.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Checkout envía sólo producto y cantidad; precio, impuesto, descuento de stock y alta de la venta
// ocurren atómicamente en el backend. Con abono parcial o nota se usa la variante completa.
func (r *SaleRepo) Checkout(ctx context.Context, req repository.CheckoutRequest) (*entity.CheckoutResult, error) {
	items, err := json.Marshal(req.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode checkout items: %w", err)
	}

	var row pgx.Row
	if req.PartialAmount != nil || req.Note != nil {
		const sql = `
			SELECT sale_id, subtotal, tax_amount, total
			FROM pos_checkout_full(p_customer_id => $1::uuid, p_items => $2::jsonb,
			                       p_partial_amount => $3::numeric, p_note => $4::text)`
		row = r.q.QueryRow(ctx, sql, nullIfEmpty(req.CustomerID), string(items), req.PartialAmount, req.Note)
	} else {
		const sql = `
			SELECT sale_id, subtotal, tax_amount, total
			FROM pos_checkout(p_customer_id => $1::uuid, p_items => $2::jsonb)`
		row = r.q.QueryRow(ctx, sql, nullIfEmpty(req.CustomerID), string(items))
	}

	var res entity.CheckoutResult
	if err := row.Scan(&res.SaleID, &res.Subtotal, &res.TaxAmount, &res.Total); err != nil {
		return nil, mapWriteError("pos_checkout", err)
	}
	return &res, nil
}

// Search delega en sales_search normalizando numéricos nulos a cero.
func (r *SaleRepo) Search(ctx context.Context, f repository.SalesFilter) ([]entity.Sale, error) {
	const sql = `
		SELECT id, created_at, COALESCE(customer_id::text, ''), COALESCE(customer_name, ''),
		       COALESCE(subtotal, 0), COALESCE(tax_amount, 0), COALESCE(total, 0),
		       COALESCE(item_count, 0), COALESCE(paid_total, 0), COALESCE(balance_due, 0)
		FROM sales_search(p_query => $1, p_date_from => $2::timestamptz, p_date_to => $3::timestamptz,
		                  p_limit => $4, p_offset => $5)`
	rows, err := r.q.Query(ctx, sql, nullIfEmpty(f.Query), f.From, f.To, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("sales_search: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Sale, 0)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.CustomerID, &s.CustomerName, &s.Subtotal, &s.TaxAmount,
			&s.Total, &s.ItemCount, &s.PaidTotal, &s.BalanceDue); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetByID cabecera de una venta con pagado y saldo; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	const sql = `
		SELECT s.id, s.created_at, COALESCE(s.customer_id::text, ''), COALESCE(c.name, ''),
		       s.subtotal, s.tax_amount, s.total,
		       (SELECT COUNT(*) FROM sale_items i WHERE i.sale_id = s.id),
		       COALESCE((SELECT SUM(p.amount_paid) FROM payments p WHERE p.sale_id = s.id), 0)
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE s.id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, sql, id).Scan(&s.ID, &s.CreatedAt, &s.CustomerID, &s.CustomerName,
		&s.Subtotal, &s.TaxAmount, &s.Total, &s.ItemCount, &s.PaidTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.BalanceDue = decimal.Max(s.Total.Sub(s.PaidTotal), decimal.Zero)
	return &s, nil
}

// Items líneas de la venta ordenadas por id.
func (r *SaleRepo) Items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	const sql = `
		SELECT id::text, sale_id, product_id, COALESCE(product_name, ''), quantity,
		       COALESCE(price, 0), COALESCE(tax_rate, 0)
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id ASC`
	rows, err := r.q.Query(ctx, sql, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	list := make([]entity.SaleItem, 0)
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price, &it.TaxRate); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Metrics resumen de los últimos days días (sales_metrics).
func (r *SaleRepo) Metrics(ctx context.Context, days int) (*entity.SalesMetrics, error) {
	const sql = `
		SELECT COALESCE(sales_count_7d, 0), COALESCE(revenue_7d, 0), COALESCE(aov_7d, 0),
		       COALESCE(sales_today, 0), COALESCE(revenue_today, 0),
		       COALESCE(top_product_name, ''), COALESCE(top_product_qty, 0)
		FROM sales_metrics(p_days => $1)
		LIMIT 1`
	var m entity.SalesMetrics
	err := r.q.QueryRow(ctx, sql, days).Scan(&m.SalesCount, &m.Revenue, &m.AOV, &m.SalesToday,
		&m.RevenueToday, &m.TopProductName, &m.TopProductQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.SalesMetrics{}, nil
		}
		return nil, fmt.Errorf("sales_metrics: %w", err)
	}
	return &m, nil
}
