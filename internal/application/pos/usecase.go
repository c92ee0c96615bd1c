package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/pos"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

// ProductCatalog foto de productos vendibles (stock > 0) usada para presupuestar.
type ProductCatalog interface {
	PosSnapshot(ctx context.Context) ([]entity.PosProduct, error)
}

// CheckoutUseCase presupuesto y cobro del punto de venta.
type CheckoutUseCase struct {
	sales   repository.SaleRepository
	catalog ProductCatalog
	cache   *querycache.Cache
	log     *logger.Logger
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(sales repository.SaleRepository, catalog ProductCatalog, cache *querycache.Cache, log *logger.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{sales: sales, catalog: catalog, cache: cache, log: log.Component("pos")}
}

// Quote arma un carrito con la foto actual de productos y devuelve totales estimados.
// Las líneas que superan el stock quedan recortadas y las de productos no vendibles excluidas,
// ambas con un aviso. No modifica nada.
func (uc *CheckoutUseCase) Quote(ctx context.Context, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	lines, err := pos.NormalizeLines(toCheckoutLines(in.Items))
	if err != nil {
		return nil, err
	}
	snapshot, err := uc.catalog.PosSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.PosProduct, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}

	cart := pos.NewCart()
	warnings := make(map[string]string)
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok || p.Stock <= 0 {
			warnings[l.ProductID] = "producto no disponible para la venta"
			continue
		}
		err := cart.AddQuantity(p, l.Quantity)
		if errors.Is(err, domain.ErrInsufficientStock) {
			warnings[l.ProductID] = fmt.Sprintf("sólo hay %d unidades", p.Stock)
			err = cart.AddQuantity(p, p.Stock)
		}
		if err != nil {
			return nil, err
		}
	}

	inCart := make(map[string]pos.Line)
	for _, l := range cart.Lines() {
		inCart[l.ProductID] = l
	}
	out := &dto.QuoteResponse{
		Lines:    make([]dto.QuoteLine, 0, len(lines)),
		Subtotal: cart.Subtotal(),
		Tax:      cart.Tax(),
		Total:    cart.Total(),
	}
	for _, l := range lines {
		q := dto.QuoteLine{ProductID: l.ProductID, Requested: l.Quantity, Warning: warnings[l.ProductID]}
		if cl, ok := inCart[l.ProductID]; ok {
			q.Name, q.Quantity, q.Price, q.TaxRate = cl.Name, cl.Quantity, cl.Price, cl.TaxRate
			q.Subtotal, q.Tax = cl.Subtotal(), cl.Tax()
		}
		out.Lines = append(out.Lines, q)
	}
	return out, nil
}

// Checkout cobra el carrito. Sólo viajan producto y cantidad: precio, impuesto, descuento de stock
// y alta de la venta ocurren atómicamente en el backend. Tras el éxito invalida todas las vistas
// que dependen de stock, ventas y saldos.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	lines, err := pos.NormalizeLines(toCheckoutLines(in.Items))
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if !dto.ValidID(l.ProductID) {
			return nil, fmt.Errorf("%w: product_id %q", domain.ErrInvalidInput, l.ProductID)
		}
	}
	customerID := ""
	if in.CustomerID != nil {
		customerID = strings.TrimSpace(*in.CustomerID)
	}
	if customerID != "" && !dto.ValidID(customerID) {
		return nil, fmt.Errorf("%w: customer_id", domain.ErrInvalidInput)
	}
	if in.PartialAmount != nil && !in.PartialAmount.IsPositive() {
		return nil, fmt.Errorf("%w: el abono parcial debe ser mayor a cero", domain.ErrInvalidInput)
	}
	note := in.Note
	if note != nil && strings.TrimSpace(*note) == "" {
		note = nil
	}

	res, err := uc.sales.Checkout(ctx, repository.CheckoutRequest{
		CustomerID:    customerID,
		Lines:         lines,
		PartialAmount: in.PartialAmount,
		Note:          note,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("customer_id", customerID).Int("lines", len(lines)).Msg("cobro rechazado")
		return nil, err
	}
	uc.cache.Invalidate(querykeys.CheckoutMutation(res.SaleID, customerID)...)

	s := pos.Settle(res.Total, in.PartialAmount)
	uc.log.Info().Str("sale_id", res.SaleID).Str("customer_id", customerID).
		Str("total", res.Total.StringFixed(2)).Str("balance", s.Balance.StringFixed(2)).
		Msg("venta registrada")
	return &dto.CheckoutResponse{
		SaleID:         res.SaleID,
		Subtotal:       res.Subtotal,
		TaxAmount:      res.TaxAmount,
		Total:          res.Total,
		PaidAmount:     s.Paid,
		BalanceDue:     s.Balance,
		PartialPayment: s.Partial,
	}, nil
}

func toCheckoutLines(items []dto.CartItemRequest) []entity.CheckoutLine {
	out := make([]entity.CheckoutLine, 0, len(items))
	for _, it := range items {
		out = append(out, entity.CheckoutLine{ProductID: strings.TrimSpace(it.ProductID), Quantity: it.Quantity})
	}
	return out
}
