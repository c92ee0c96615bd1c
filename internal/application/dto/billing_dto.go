package dto

import (
	"github.com/shopspring/decimal"
)

// Filtros de estado del listado de facturas.
const (
	InvoiceFilterAll     = "all"
	InvoiceFilterPaid    = "paid"
	InvoiceFilterPending = "pending"
	InvoiceFilterOverdue = "overdue"
)

// CreateInvoiceRequest body para POST /api/invoices. Fechas en formato YYYY-MM-DD.
type CreateInvoiceRequest struct {
	CustomerID  string               `json:"customer_id"`
	InvoiceDate string               `json:"invoice_date"`
	DueDate     string               `json:"due_date"`
	Terms       string               `json:"terms,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Items       []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura. TaxRate nil toma la tasa por defecto (8.5 %).
type InvoiceItemRequest struct {
	Name     string           `json:"name"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    decimal.Decimal  `json:"price"`
	TaxRate  *decimal.Decimal `json:"tax_rate,omitempty"`
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// InvoiceResponse factura con su estado efectivo. Items sólo viene en el detalle.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       int64                 `json:"number"`
	Reference    string                `json:"reference"`
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name"`
	InvoiceDate  string                `json:"invoice_date"`
	DueDate      string                `json:"due_date"`
	Terms        string                `json:"terms"`
	Notes        string                `json:"notes,omitempty"`
	Status       string                `json:"status"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	TaxTotal     decimal.Decimal       `json:"tax_total"`
	Total        decimal.Decimal       `json:"total"`
	PaidAmount   decimal.Decimal       `json:"paid_amount"`
	BalanceDue   decimal.Decimal       `json:"balance_due"`
	Items        []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceSummary totales por estado de las facturas listadas (antes del filtro de estado).
type InvoiceSummary struct {
	Count        int             `json:"count"`
	PaidTotal    decimal.Decimal `json:"paid_total"`
	PendingTotal decimal.Decimal `json:"pending_total"`
	OverdueTotal decimal.Decimal `json:"overdue_total"`
}

// InvoiceListResponse listado con resumen.
type InvoiceListResponse struct {
	Items   []InvoiceResponse `json:"items"`
	Summary InvoiceSummary    `json:"summary"`
	Page    PageResponse      `json:"page"`
}
