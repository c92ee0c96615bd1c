package fakes

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

// Sales repo de ventas. Checkout imita pos_checkout: toma precio e impuesto de Products,
// descuenta stock y crea la venta; falla con ErrInsufficientStock sin tocar nada.
type Sales struct {
	Calls
	Err      Errors
	Products *Products
	Rows     []entity.Sale
	Lines    map[string][]entity.SaleItem
	Requests []repository.CheckoutRequest
	Filters  []repository.SalesFilter
	Metric   *entity.SalesMetrics
}

var _ repository.SaleRepository = (*Sales)(nil)

var hundred = decimal.NewFromInt(100)

func (f *Sales) Checkout(_ context.Context, req repository.CheckoutRequest) (*entity.CheckoutResult, error) {
	f.inc("Checkout")
	f.Requests = append(f.Requests, req)
	if err := f.Err.get("Checkout"); err != nil {
		return nil, err
	}
	for _, l := range req.Lines {
		p, ok := f.Products.Rows[l.ProductID]
		if !ok {
			return nil, domain.ErrNotFound
		}
		if p.Stock < l.Quantity {
			return nil, domain.ErrInsufficientStock
		}
	}
	sale := entity.Sale{ID: uuid.NewString(), CreatedAt: time.Now(), CustomerID: req.CustomerID,
		Subtotal: decimal.Zero, TaxAmount: decimal.Zero}
	items := make([]entity.SaleItem, 0, len(req.Lines))
	for _, l := range req.Lines {
		p := f.Products.Rows[l.ProductID]
		p.Stock -= l.Quantity
		sub := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		sale.Subtotal = sale.Subtotal.Add(sub)
		sale.TaxAmount = sale.TaxAmount.Add(sub.Mul(p.TaxRate).Div(hundred))
		items = append(items, entity.SaleItem{ID: uuid.NewString(), SaleID: sale.ID, ProductID: p.ID,
			ProductName: p.Name, Quantity: l.Quantity, Price: p.Price, TaxRate: p.TaxRate})
	}
	sale.Total = sale.Subtotal.Add(sale.TaxAmount)
	sale.ItemCount = len(items)
	sale.PaidTotal = sale.Total
	if req.PartialAmount != nil && req.PartialAmount.LessThan(sale.Total) {
		sale.PaidTotal = *req.PartialAmount
	}
	sale.BalanceDue = sale.Total.Sub(sale.PaidTotal)
	f.Rows = append(f.Rows, sale)
	if f.Lines == nil {
		f.Lines = make(map[string][]entity.SaleItem)
	}
	f.Lines[sale.ID] = items
	return &entity.CheckoutResult{SaleID: sale.ID, Subtotal: sale.Subtotal, TaxAmount: sale.TaxAmount, Total: sale.Total}, nil
}

func (f *Sales) Search(_ context.Context, flt repository.SalesFilter) ([]entity.Sale, error) {
	f.inc("Search")
	f.Filters = append(f.Filters, flt)
	if err := f.Err.get("Search"); err != nil {
		return nil, err
	}
	out := make([]entity.Sale, 0)
	for _, s := range f.Rows {
		if flt.From != nil && s.CreatedAt.Before(*flt.From) {
			continue
		}
		if flt.To != nil && !s.CreatedAt.Before(*flt.To) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, flt.Limit, flt.Offset), nil
}

func (f *Sales) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	f.inc("GetByID")
	for _, s := range f.Rows {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, f.Err.get("GetByID")
}

func (f *Sales) Items(_ context.Context, saleID string) ([]entity.SaleItem, error) {
	f.inc("Items")
	if err := f.Err.get("Items"); err != nil {
		return nil, err
	}
	items := f.Lines[saleID]
	if items == nil {
		items = []entity.SaleItem{}
	}
	return items, nil
}

func (f *Sales) Metrics(_ context.Context, _ int) (*entity.SalesMetrics, error) {
	f.inc("Metrics")
	if err := f.Err.get("Metrics"); err != nil {
		return nil, err
	}
	if f.Metric == nil {
		return &entity.SalesMetrics{}, nil
	}
	return f.Metric, nil
}

// Payments repo de pagos con resúmenes fijados por el test.
type Payments struct {
	Calls
	Err       Errors
	Rows      []entity.Payment
	Summaries map[string]*entity.SalePaymentSummary
	Balances  map[string]*entity.CustomerBalance
}

var _ repository.PaymentRepository = (*Payments)(nil)

func (f *Payments) Create(_ context.Context, p *entity.Payment) error {
	f.inc("Create")
	if err := f.Err.get("Create"); err != nil {
		return err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	f.Rows = append(f.Rows, *p)
	if s, ok := f.Summaries[p.SaleID]; ok {
		s.TotalPaid = s.TotalPaid.Add(p.AmountPaid)
		s.BalanceDue = s.BalanceDue.Sub(p.AmountPaid)
	}
	return nil
}

func (f *Payments) ListBySale(_ context.Context, saleID string) ([]entity.Payment, error) {
	f.inc("ListBySale")
	out := make([]entity.Payment, 0)
	for i := len(f.Rows) - 1; i >= 0; i-- {
		if f.Rows[i].SaleID == saleID {
			out = append(out, f.Rows[i])
		}
	}
	return out, f.Err.get("ListBySale")
}

func (f *Payments) SaleSummary(_ context.Context, saleID string) (*entity.SalePaymentSummary, error) {
	f.inc("SaleSummary")
	if err := f.Err.get("SaleSummary"); err != nil {
		return nil, err
	}
	if s, ok := f.Summaries[saleID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *Payments) CustomerBalance(_ context.Context, customerID string) (*entity.CustomerBalance, error) {
	f.inc("CustomerBalance")
	if b, ok := f.Balances[customerID]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, f.Err.get("CustomerBalance")
}

func (f *Payments) OutstandingBalances(_ context.Context) ([]entity.CustomerBalance, error) {
	f.inc("OutstandingBalances")
	out := make([]entity.CustomerBalance, 0, len(f.Balances))
	for _, b := range f.Balances {
		out = append(out, *b)
	}
	return out, f.Err.get("OutstandingBalances")
}
