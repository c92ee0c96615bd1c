package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

const (
	dayLayout      = "2006-01-02"
	defaultLimit   = 100
	maxLimit       = 500
	defaultDueDays = 30
)

var (
	defaultTaxRate = decimal.RequireFromString("8.5")
	hundred        = decimal.NewFromInt(100)
)

// InvoiceUseCase emisión, consulta y documentos de facturas.
type InvoiceUseCase struct {
	txRunner TxRunner
	repo     repository.InvoiceRepository
	pdf      InvoicePDFGenerator
	xml      InvoiceXMLExporter
	cache    *querycache.Cache
	stale    time.Duration
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso. loc es la zona horaria del comercio.
func NewInvoiceUseCase(
	txRunner TxRunner,
	repo repository.InvoiceRepository,
	pdf InvoicePDFGenerator,
	xml InvoiceXMLExporter,
	cache *querycache.Cache,
	stale time.Duration,
	loc *time.Location,
	log *logger.Logger,
) *InvoiceUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceUseCase{
		txRunner: txRunner, repo: repo, pdf: pdf, xml: xml,
		cache: cache, stale: stale, loc: loc, now: time.Now, log: log.Component("billing"),
	}
}

// Create emite una factura en estado Pending. Cabecera y líneas se guardan en una sola transacción;
// si el cliente no existe no se escribe nada.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.build(in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository) error {
		customer, err := customerRepo.GetByID(ctx, inv.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, inv.CustomerID)
		}
		inv.CustomerName = customer.Name
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for i := range inv.Items {
			inv.Items[i].InvoiceID = inv.ID
			if err := invoiceRepo.CreateItem(ctx, &inv.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(querykeys.Invoices, querykeys.FinancialAnalytics)
	uc.log.Info().Str("invoice_id", inv.ID).Str("reference", inv.Reference()).
		Str("total", inv.Total.StringFixed(2)).Msg("factura emitida")
	out := uc.toResponse(inv, true)
	return &out, nil
}

// build valida la entrada y calcula los importes de cada línea y de la factura (2 decimales).
func (uc *InvoiceUseCase) build(in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	customerID := strings.TrimSpace(in.CustomerID)
	if !dto.ValidID(customerID) {
		return nil, fmt.Errorf("%w: customer_id", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la factura necesita al menos una línea", domain.ErrInvalidInput)
	}
	invoiceDate := entity.DateOnly(uc.now().In(uc.loc))
	if s := strings.TrimSpace(in.InvoiceDate); s != "" {
		t, err := time.Parse(dayLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: invoice_date %q", domain.ErrInvalidInput, s)
		}
		invoiceDate = t
	}
	dueDate := invoiceDate.AddDate(0, 0, defaultDueDays)
	if s := strings.TrimSpace(in.DueDate); s != "" {
		t, err := time.Parse(dayLayout, s)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date %q", domain.ErrInvalidInput, s)
		}
		dueDate = t
	}
	if dueDate.Before(invoiceDate) {
		return nil, fmt.Errorf("%w: el vencimiento es anterior a la fecha de factura", domain.ErrInvalidInput)
	}
	terms := strings.TrimSpace(in.Terms)
	if terms == "" {
		terms = entity.DefaultInvoiceTerms
	}

	inv := &entity.Invoice{
		CustomerID:  customerID,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		Terms:       terms,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      entity.InvoiceStatusPending,
		Subtotal:    decimal.Zero,
		TaxTotal:    decimal.Zero,
		PaidAmount:  decimal.Zero,
		Items:       make([]entity.InvoiceItem, 0, len(in.Items)),
	}
	for i, it := range in.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" || !it.Quantity.IsPositive() || !it.Price.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d", domain.ErrInvalidInput, i+1)
		}
		rate := defaultTaxRate
		if it.TaxRate != nil {
			rate = *it.TaxRate
		}
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: tasa de impuesto en línea %d", domain.ErrInvalidInput, i+1)
		}
		item := LineAmounts(name, it.Quantity, it.Price, rate)
		inv.Items = append(inv.Items, item)
		inv.Subtotal = inv.Subtotal.Add(item.Subtotal)
		inv.TaxTotal = inv.TaxTotal.Add(item.TaxAmount)
	}
	inv.Total = inv.Subtotal.Add(inv.TaxTotal)
	return inv, nil
}

// LineAmounts subtotal = cantidad × precio, impuesto = subtotal × tasa / 100, ambos a 2 decimales.
func LineAmounts(name string, qty, price, rate decimal.Decimal) entity.InvoiceItem {
	sub := qty.Mul(price).Round(2)
	return entity.InvoiceItem{
		Name:      name,
		Quantity:  qty,
		Price:     price,
		TaxRate:   rate,
		Subtotal:  sub,
		TaxAmount: sub.Mul(rate).Div(hundred).Round(2),
	}
}

// List facturas con resumen por estado. status ∈ all|paid|pending|overdue filtra después de
// resumir, porque Overdue se deriva de la fecha de vencimiento.
func (uc *InvoiceUseCase) List(ctx context.Context, search, status string, limit, offset int) (*dto.InvoiceListResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		status = dto.InvoiceFilterAll
	}
	switch status {
	case dto.InvoiceFilterAll, dto.InvoiceFilterPaid, dto.InvoiceFilterPending, dto.InvoiceFilterOverdue:
	default:
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	page := dto.Page(limit, offset, defaultLimit, maxLimit)
	search = strings.TrimSpace(search)
	key := querykeys.With(querykeys.Invoices, search, page.Limit, page.Offset)
	list, err := querycache.Get(ctx, uc.cache, key, uc.stale, func(ctx context.Context) ([]entity.Invoice, error) {
		return uc.repo.List(ctx, repository.InvoiceFilter{Search: search, Limit: page.Limit, Offset: page.Offset})
	})
	if err != nil {
		return nil, err
	}

	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Summary: dto.InvoiceSummary{
			Count: len(list), PaidTotal: decimal.Zero, PendingTotal: decimal.Zero, OverdueTotal: decimal.Zero,
		},
		Page: page,
	}
	for i := range list {
		r := uc.toResponse(&list[i], false)
		switch r.Status {
		case entity.InvoiceStatusPaid:
			out.Summary.PaidTotal = out.Summary.PaidTotal.Add(r.Total)
		case entity.InvoiceStatusOverdue:
			out.Summary.OverdueTotal = out.Summary.OverdueTotal.Add(r.BalanceDue)
		default:
			out.Summary.PendingTotal = out.Summary.PendingTotal.Add(r.BalanceDue)
		}
		if status == dto.InvoiceFilterAll || strings.EqualFold(r.Status, status) {
			out.Items = append(out.Items, r)
		}
	}
	return out, nil
}

// Get factura con líneas; ErrNotFound si no existe.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := uc.toResponse(inv, true)
	return &out, nil
}

// PDF documento imprimible de la factura. Devuelve bytes y nombre de archivo.
func (uc *InvoiceUseCase) PDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.InvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: factura: %w", err)
	}
	return b, inv.Reference() + ".pdf", nil
}

// XML exportación de la factura con digest SHA-256 de su forma canónica.
func (uc *InvoiceUseCase) XML(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.xml.InvoiceXML(inv)
	if err != nil {
		return nil, "", fmt.Errorf("xml: factura: %w", err)
	}
	return b, inv.Reference() + ".xml", nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	if !dto.ValidID(id) {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repo.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, withItems bool) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		Reference:    inv.Reference(),
		CustomerID:   inv.CustomerID,
		CustomerName: inv.CustomerName,
		InvoiceDate:  inv.InvoiceDate.Format(dayLayout),
		DueDate:      inv.DueDate.Format(dayLayout),
		Terms:        inv.Terms,
		Notes:        inv.Notes,
		Status:       inv.EffectiveStatus(uc.now().In(uc.loc)),
		Subtotal:     inv.Subtotal,
		TaxTotal:     inv.TaxTotal,
		Total:        inv.Total,
		PaidAmount:   inv.PaidAmount,
		BalanceDue:   inv.BalanceDue(),
	}
	if withItems {
		out.Items = make([]dto.InvoiceItemResponse, 0, len(inv.Items))
		for _, it := range inv.Items {
			out.Items = append(out.Items, dto.InvoiceItemResponse{
				ID: it.ID, Name: it.Name, Quantity: it.Quantity, Price: it.Price,
				TaxRate: it.TaxRate, Subtotal: it.Subtotal, TaxAmount: it.TaxAmount,
			})
		}
	}
	return out
}
