package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, sku, COALESCE(category, ''), stock, min_stock, price, tax_rate,
	COALESCE(supplier, ''), COALESCE(description, ''), created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row, p *entity.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Stock, &p.MinStock, &p.Price, &p.TaxRate,
		&p.Supplier, &p.Description, &p.CreatedAt)
}

// Search delega en products_search (filtro por texto y opcionalmente sólo bajo mínimo).
func (r *ProductRepo) Search(ctx context.Context, query string, limit, offset int, lowStockOnly bool) ([]entity.Product, error) {
	sql := `SELECT ` + productColumns + `
		FROM products_search(p_query => $1, p_limit => $2, p_offset => $3, p_low_stock_only => $4)`
	rows, err := r.q.Query(ctx, sql, nullIfEmpty(query), limit, offset, lowStockOnly)
	if err != nil {
		return nil, fmt.Errorf("products_search: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Create persiste un nuevo producto con su stock inicial.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const sql = `
		INSERT INTO products (name, sku, category, stock, min_stock, price, tax_rate, supplier, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, sql,
		p.Name, p.SKU, nullIfEmpty(p.Category), p.Stock, p.MinStock, p.Price, p.TaxRate,
		nullIfEmpty(p.Supplier), nullIfEmpty(p.Description),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return mapWriteError("insert product", err)
	}
	return nil
}

// Update actualiza los campos del patch. Stock no forma parte del patch: sólo cambia con movimientos.
func (r *ProductRepo) Update(ctx context.Context, id string, p entity.ProductPatch) (*entity.Product, error) {
	var set setClause
	if p.Name != nil {
		set.add("name", *p.Name)
	}
	if p.SKU != nil {
		set.add("sku", *p.SKU)
	}
	if p.Category != nil {
		set.add("category", nullIfEmpty(*p.Category))
	}
	if p.MinStock != nil {
		set.add("min_stock", *p.MinStock)
	}
	if p.Price != nil {
		set.add("price", *p.Price)
	}
	if p.TaxRate != nil {
		set.add("tax_rate", *p.TaxRate)
	}
	if p.Supplier != nil {
		set.add("supplier", nullIfEmpty(*p.Supplier))
	}
	if p.Description != nil {
		set.add("description", nullIfEmpty(*p.Description))
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}

	cols, args, idx := set.sql(id)
	sql := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`, cols, idx, productColumns)
	var out entity.Product
	if err := scanProduct(r.q.QueryRow(ctx, sql, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapWriteError("update product", err)
	}
	return &out, nil
}

// Delete elimina un producto. ErrReferenced si hay ventas o movimientos que lo usan.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListForPOS delega en pos_products.
func (r *ProductRepo) ListForPOS(ctx context.Context, query string, limit, offset int) ([]entity.PosProduct, error) {
	const sql = `
		SELECT id, name, price, tax_rate, stock
		FROM pos_products(p_query => $1, p_limit => $2, p_offset => $3)`
	rows, err := r.q.Query(ctx, sql, nullIfEmpty(query), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pos_products: %w", err)
	}
	defer rows.Close()

	list := make([]entity.PosProduct, 0)
	for rows.Next() {
		var p entity.PosProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.TaxRate, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan pos product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
