package dto

import "time"

// Tipos del diálogo de ajuste de stock.
const (
	AdjustTypeAdd    = "add"
	AdjustTypeRemove = "remove"
)

// MoveStockRequest body para POST /api/inventory/movements. Reason por defecto "adjustment".
type MoveStockRequest struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason,omitempty"`
	RefType   string `json:"ref_type,omitempty"`
	RefID     string `json:"ref_id,omitempty"`
}

// SetStockRequest body para PUT /api/inventory/products/:id/stock.
type SetStockRequest struct {
	NewQty int    `json:"new_qty"`
	Reason string `json:"reason,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/products/:id/adjust.
type AdjustStockRequest struct {
	Type   string `json:"type"` // add | remove
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// MoveStockResponse stock resultante tras el movimiento.
type MoveStockResponse struct {
	ProductID string `json:"product_id"`
	NewStock  int    `json:"new_stock"`
}

// StockMovementResponse fila del historial de movimientos.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	RefType   string    `json:"ref_type,omitempty"`
	RefID     string    `json:"ref_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
