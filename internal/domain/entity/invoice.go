package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura. Overdue no se guarda: se deriva de la fecha de vencimiento.
const (
	InvoiceStatusPaid    = "Paid"
	InvoiceStatusPending = "Pending"
	InvoiceStatusOverdue = "Overdue"
)

// DefaultInvoiceTerms condiciones de pago por defecto.
const DefaultInvoiceTerms = "Net 30"

// Invoice cabecera de factura emitida a un cliente.
type Invoice struct {
	ID           string
	Number       int64
	CustomerID   string
	CustomerName string
	InvoiceDate  time.Time
	DueDate      time.Time
	Terms        string
	Notes        string
	Status       string // Paid | Pending
	Subtotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	Total        decimal.Decimal
	PaidAmount   decimal.Decimal
	PaidAt       *time.Time
	CreatedAt    time.Time
	Items        []InvoiceItem
}

// InvoiceItem línea de factura. TaxRate en porcentaje.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	Name      string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
}

// Reference número visible de la factura (INV-00042).
func (i *Invoice) Reference() string {
	return fmt.Sprintf("INV-%05d", i.Number)
}

// BalanceDue total menos lo pagado, nunca negativo.
func (i *Invoice) BalanceDue() decimal.Decimal {
	b := i.Total.Sub(i.PaidAmount)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// EffectiveStatus estado mostrado: Paid si no queda saldo, Overdue si hay saldo y
// el vencimiento es anterior a today (fecha local del comercio), si no Pending.
func (i *Invoice) EffectiveStatus(today time.Time) string {
	if i.Status == InvoiceStatusPaid || !i.BalanceDue().IsPositive() {
		return InvoiceStatusPaid
	}
	if DateOnly(i.DueDate).Before(DateOnly(today)) {
		return InvoiceStatusOverdue
	}
	return InvoiceStatusPending
}

// DateOnly normaliza t a medianoche UTC conservando año, mes y día de su zona.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
