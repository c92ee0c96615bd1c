package entity

import "time"

// Motivos habituales de movimiento.
const (
	MovementReasonAdjustment = "adjustment"
	MovementReasonSet        = "set"
	MovementReasonSale       = "sale"
)

// StockMovement fila del historial de stock. Delta positivo entra, negativo sale.
// El backend la escribe dentro de inventory_move / inventory_set / checkout.
type StockMovement struct {
	ID        string
	ProductID string
	Delta     int
	Reason    string
	RefType   string
	RefID     string
	CreatedAt time.Time
}
