package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo del inventario. TaxRate es un porcentaje (8.5 = 8,5 %).
// Stock sólo cambia mediante movimientos (inventory_move / inventory_set), salvo el stock inicial al crear.
type Product struct {
	ID          string
	Name        string
	SKU         string
	Category    string
	Stock       int
	MinStock    int
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
	Supplier    string
	Description string
	CreatedAt   time.Time
}

// ProductPatch actualización parcial. No incluye Stock a propósito.
type ProductPatch struct {
	Name        *string
	SKU         *string
	Category    *string
	MinStock    *int
	Price       *decimal.Decimal
	TaxRate     *decimal.Decimal
	Supplier    *string
	Description *string
}

// PosProduct producto vendible en el POS (stock > 0), tal como lo devuelve pos_products.
type PosProduct struct {
	ID      string
	Name    string
	Price   decimal.Decimal
	TaxRate decimal.Decimal
	Stock   int
}
