package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// CreatePaymentRequest body para POST /api/sales/:id/payments.
type CreatePaymentRequest struct {
	CustomerID    string          `json:"customer_id,omitempty"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
}

// PaymentResponse abono registrado.
type PaymentResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	CustomerID    string          `json:"customer_id,omitempty"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   time.Time       `json:"payment_date"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CustomerBalanceResponse saldo consolidado de un cliente.
type CustomerBalanceResponse struct {
	CustomerID       string                      `json:"customer_id"`
	CustomerName     string                      `json:"customer_name"`
	TotalOutstanding decimal.Decimal             `json:"total_outstanding"`
	OverdueAmount    decimal.Decimal             `json:"overdue_amount"`
	TotalSales       int                         `json:"total_sales"`
	PendingSales     []entity.SalePaymentSummary `json:"pending_sales"`
}
