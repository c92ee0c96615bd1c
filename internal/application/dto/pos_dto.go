package dto

import "github.com/shopspring/decimal"

// CartItemRequest línea pedida: sólo producto y cantidad.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest body para POST /api/pos/checkout. CustomerID nil o vacío = cliente de mostrador.
type CheckoutRequest struct {
	CustomerID    *string           `json:"customer_id"`
	Items         []CartItemRequest `json:"items"`
	PartialAmount *decimal.Decimal  `json:"partial_amount,omitempty"`
	Note          *string           `json:"note,omitempty"`
}

// CheckoutResponse totales autoritativos devueltos por el backend más pagado y saldo derivados.
type CheckoutResponse struct {
	SaleID         string          `json:"sale_id"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	PartialPayment bool            `json:"partial_payment"`
}

// QuoteRequest body para POST /api/pos/quote.
type QuoteRequest struct {
	Items []CartItemRequest `json:"items"`
}

// QuoteLine línea estimada del carrito. Warning explica por qué la cantidad quedó recortada o excluida.
type QuoteLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Requested int             `json:"requested"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Warning   string          `json:"warning,omitempty"`
}

// QuoteResponse totales estimados; el cobro real los recalcula en el backend.
type QuoteResponse struct {
	Lines    []QuoteLine     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}
