package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago.
const (
	PaymentMethodCash         = "Cash"
	PaymentMethodCard         = "Card"
	PaymentMethodCheck        = "Check"
	PaymentMethodBankTransfer = "Bank Transfer"
)

// IsValidPaymentMethod indica si m es un método admitido.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodCheck, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// Estados de pago de una venta.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPartial = "Partial"
	PaymentStatusPaid    = "Paid"
	PaymentStatusOverdue = "Overdue"
)

// Payment abono registrado contra una venta.
type Payment struct {
	ID            string
	SaleID        string
	CustomerID    string
	AmountPaid    decimal.Decimal
	PaymentMethod string
	PaymentDate   time.Time
	Notes         string
	CreatedAt     time.Time
}

// SalePaymentSummary total, pagado y saldo de una venta.
type SalePaymentSummary struct {
	SaleID        string          `json:"sale_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	PaymentStatus string          `json:"payment_status"`
	CustomerName  string          `json:"customer_name"`
	SaleDate      time.Time       `json:"sale_date"`
}

// CustomerBalance saldo consolidado de un cliente.
type CustomerBalance struct {
	CustomerID       string
	CustomerName     string
	TotalOutstanding decimal.Decimal
	OverdueAmount    decimal.Decimal
	TotalSales       int
	PendingSales     []SalePaymentSummary
}
