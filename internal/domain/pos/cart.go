package pos

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Line línea del carrito con la foto del producto al momento de agregarlo.
type Line struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje
	Stock     int             // disponible según la foto
	Quantity  int
}

// Subtotal precio × cantidad.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Tax precio × cantidad × tasa / 100.
func (l Line) Tax() decimal.Decimal {
	return l.Subtotal().Mul(l.TaxRate).Div(hundred)
}

// Cart carrito del punto de venta. Los totales son estimados: el backend recalcula
// precio e impuesto al cobrar. No es seguro para uso concurrente.
type Cart struct {
	lines []Line
}

// NewCart crea un carrito vacío.
func NewCart() *Cart {
	return &Cart{}
}

// Add suma una unidad del producto. Rechaza productos sin stock y no supera el stock de la foto.
func (c *Cart) Add(p entity.PosProduct) error {
	return c.AddQuantity(p, 1)
}

// AddQuantity suma qty unidades del producto con las mismas reglas que Add.
func (c *Cart) AddQuantity(p entity.PosProduct, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if p.Stock <= 0 {
		return fmt.Errorf("%w: %s sin existencias", domain.ErrInsufficientStock, p.Name)
	}
	if i := c.index(p.ID); i >= 0 {
		desired := c.lines[i].Quantity + qty
		if desired > p.Stock {
			return fmt.Errorf("%w: sólo hay %d unidades de %s", domain.ErrInsufficientStock, p.Stock, p.Name)
		}
		c.lines[i].Quantity = desired
		c.lines[i].Stock = p.Stock
		return nil
	}
	if qty > p.Stock {
		return fmt.Errorf("%w: sólo hay %d unidades de %s", domain.ErrInsufficientStock, p.Stock, p.Name)
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		TaxRate:   p.TaxRate,
		Stock:     p.Stock,
		Quantity:  qty,
	})
	return nil
}

// Update cambia la cantidad en delta. Si queda en cero o menos la línea se quita;
// si supera el stock la línea no cambia y se devuelve ErrInsufficientStock.
func (c *Cart) Update(productID string, delta int) error {
	i := c.index(productID)
	if i < 0 {
		return domain.ErrNotFound
	}
	desired := c.lines[i].Quantity + delta
	if desired <= 0 {
		c.Remove(productID)
		return nil
	}
	if desired > c.lines[i].Stock {
		return fmt.Errorf("%w: sólo hay %d unidades de %s", domain.ErrInsufficientStock, c.lines[i].Stock, c.lines[i].Name)
	}
	c.lines[i].Quantity = desired
	return nil
}

// Remove quita la línea del producto si existe.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Clear vacía el carrito (tras un cobro exitoso).
func (c *Cart) Clear() { c.lines = nil }

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines copia de las líneas en orden de inserción.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal Σ precio × cantidad.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// Tax Σ precio × cantidad × tasa / 100.
func (c *Cart) Tax() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Tax())
	}
	return sum
}

// Total subtotal + impuesto.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax())
}

// CheckoutLines líneas a enviar al cobro: sólo producto y cantidad.
func (c *Cart) CheckoutLines() []entity.CheckoutLine {
	out := make([]entity.CheckoutLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, entity.CheckoutLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func (c *Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
