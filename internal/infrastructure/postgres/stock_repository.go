package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo movimientos de stock vía inventory_move / inventory_set.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Move aplica el delta en el backend y devuelve el stock resultante.
func (r *StockRepo) Move(ctx context.Context, m repository.StockMove) (int, error) {
	const sql = `
		SELECT inventory_move(
			p_delta => $1, p_product_id => $2, p_reason => $3,
			p_ref_id => $4::uuid, p_ref_type => $5)`
	var newStock int
	err := r.q.QueryRow(ctx, sql, m.Delta, m.ProductID, m.Reason, nullIfEmpty(m.RefID), nullIfEmpty(m.RefType)).
		Scan(&newStock)
	if err != nil {
		return 0, mapWriteError("inventory_move", err)
	}
	return newStock, nil
}

// Set fija el stock absoluto.
func (r *StockRepo) Set(ctx context.Context, productID string, newQty int, reason string) error {
	const sql = `SELECT inventory_set(p_product_id => $1, p_new_qty => $2, p_reason => $3)`
	if _, err := r.q.Exec(ctx, sql, productID, newQty, reason); err != nil {
		return mapWriteError("inventory_set", err)
	}
	return nil
}

// ListMovements historial ordenado por fecha descendente.
func (r *StockRepo) ListMovements(ctx context.Context, productID string, limit, offset int) ([]entity.StockMovement, error) {
	const sql = `
		SELECT id::text, product_id, delta, COALESCE(reason, ''), COALESCE(ref_type, ''),
		       COALESCE(ref_id::text, ''), created_at
		FROM stock_movements
		WHERE $1::uuid IS NULL OR product_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, sql, nullIfEmpty(productID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	list := make([]entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.Reason, &m.RefType, &m.RefID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
