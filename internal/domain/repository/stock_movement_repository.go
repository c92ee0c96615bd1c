package repository

import (
	"context"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// StockMove parámetros de inventory_move.
type StockMove struct {
	ProductID string
	Delta     int
	Reason    string
	RefType   string
	RefID     string
}

// StockRepository movimientos de stock. Las escrituras son atómicas en el backend
// (actualización de products.stock y alta en stock_movements).
type StockRepository interface {
	// Move aplica el delta y devuelve el stock resultante.
	Move(ctx context.Context, move StockMove) (int, error)
	// Set fija el stock a newQty registrando la diferencia como movimiento.
	Set(ctx context.Context, productID string, newQty int, reason string) error
	// ListMovements más recientes primero; productID vacío = todos.
	ListMovements(ctx context.Context, productID string, limit, offset int) ([]entity.StockMovement, error)
}
