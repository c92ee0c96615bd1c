package repository

import (
	"context"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// PaymentRepository abonos y saldos.
type PaymentRepository interface {
	// Create inserta el pago y completa ID y CreatedAt.
	Create(ctx context.Context, payment *entity.Payment) error
	// ListBySale más recientes primero (payment_date desc).
	ListBySale(ctx context.Context, saleID string) ([]entity.Payment, error)
	// SaleSummary primera fila de get_sale_payment_summary; nil si no hay.
	SaleSummary(ctx context.Context, saleID string) (*entity.SalePaymentSummary, error)
	// CustomerBalance primera fila de get_customer_balance; nil si no hay.
	CustomerBalance(ctx context.Context, customerID string) (*entity.CustomerBalance, error)
	OutstandingBalances(ctx context.Context) ([]entity.CustomerBalance, error)
}
