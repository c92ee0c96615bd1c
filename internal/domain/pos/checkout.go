package pos

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// NormalizeLines valida las líneas de un cobro y fusiona las repetidas del mismo producto
// conservando el orden de primera aparición.
func NormalizeLines(lines []entity.CheckoutLine) ([]entity.CheckoutLine, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	seen := make(map[string]int, len(lines))
	out := make([]entity.CheckoutLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad inválida para %s", domain.ErrInvalidInput, l.ProductID)
		}
		if i, ok := seen[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		seen[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out, nil
}

// Settlement pagado y saldo resultantes de un cobro.
type Settlement struct {
	Paid    decimal.Decimal
	Balance decimal.Decimal
	Partial bool
}

// Settle calcula el pago inicial: sin abono parcial (o con uno fuera de (0, total)) la venta
// queda pagada completa; con abono parcial el saldo es total - abono.
func Settle(total decimal.Decimal, partial *decimal.Decimal) Settlement {
	if partial != nil && partial.IsPositive() && partial.LessThan(total) {
		return Settlement{Paid: *partial, Balance: total.Sub(*partial), Partial: true}
	}
	return Settlement{Paid: total, Balance: decimal.Zero}
}
