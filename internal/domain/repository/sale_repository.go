package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// SalesFilter parámetros de sales_search. From inclusivo, To exclusivo; nil = sin límite.
type SalesFilter struct {
	Query  string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// CheckoutRequest datos del cobro. CustomerID vacío = cliente de mostrador.
type CheckoutRequest struct {
	CustomerID    string
	Lines         []entity.CheckoutLine
	PartialAmount *decimal.Decimal
	Note          *string
}

// SaleRepository ventas y cobro en el punto de venta.
type SaleRepository interface {
	// Checkout llama a pos_checkout o, si hay abono parcial o nota, a pos_checkout_full.
	Checkout(ctx context.Context, req CheckoutRequest) (*entity.CheckoutResult, error)
	Search(ctx context.Context, f SalesFilter) ([]entity.Sale, error)
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// Items líneas de la venta ordenadas por id.
	Items(ctx context.Context, saleID string) ([]entity.SaleItem, error)
	Metrics(ctx context.Context, days int) (*entity.SalesMetrics, error)
}
