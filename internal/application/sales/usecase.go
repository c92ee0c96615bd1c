package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/money"
)

const (
	defaultLimit = 100
	maxLimit     = 500
	defaultDays  = 7
	dayLayout    = "2006-01-02"
)

// SaleDocument datos de una venta para sus documentos impresos.
type SaleDocument struct {
	Sale     entity.Sale
	Items    []entity.SaleItem
	Summary  *entity.SalePaymentSummary // nil si el backend no devolvió resumen
	Payments []entity.Payment
}

// DocumentGenerator genera la factura A4 y el recibo de 80 mm de una venta.
type DocumentGenerator interface {
	SaleInvoicePDF(ctx context.Context, doc SaleDocument) ([]byte, error)
	ReceiptPDF(ctx context.Context, doc SaleDocument) ([]byte, error)
}

// SalesUseCase consulta de ventas, métricas y documentos.
type SalesUseCase struct {
	sales    repository.SaleRepository
	payments repository.PaymentRepository
	docs     DocumentGenerator
	cache    *querycache.Cache
	stale    time.Duration
	loc      *time.Location
}

// NewSalesUseCase construye el caso de uso. loc es la zona horaria del comercio.
func NewSalesUseCase(
	sales repository.SaleRepository,
	payments repository.PaymentRepository,
	docs DocumentGenerator,
	cache *querycache.Cache,
	stale time.Duration,
	loc *time.Location,
) *SalesUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesUseCase{sales: sales, payments: payments, docs: docs, cache: cache, stale: stale, loc: loc}
}

// List busca ventas (sales_search). dateFrom y dateTo (YYYY-MM-DD) se expanden al inicio del día
// y al inicio del día siguiente en la zona del comercio, de modo que el rango incluye ambos días.
func (uc *SalesUseCase) List(ctx context.Context, query, dateFrom, dateTo string, limit, offset int) (*dto.SaleListResponse, error) {
	page := dto.Page(limit, offset, defaultLimit, maxLimit)
	from, to, err := DayRange(dateFrom, dateTo, uc.loc)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	key := querykeys.With(querykeys.Sales, query, dateFrom, dateTo, page.Limit, page.Offset)
	list, err := querycache.Get(ctx, uc.cache, key, uc.stale, func(ctx context.Context) ([]entity.Sale, error) {
		return uc.sales.Search(ctx, repository.SalesFilter{Query: query, From: from, To: to, Limit: page.Limit, Offset: page.Offset})
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list)), Page: page}
	for i := range list {
		out.Items = append(out.Items, toSaleResponse(&list[i]))
	}
	return out, nil
}

// Get cabecera de la venta; nil si no existe.
func (uc *SalesUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	if !dto.ValidID(id) {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	out := toSaleResponse(s)
	return &out, nil
}

// Items líneas de la venta en orden de alta.
func (uc *SalesUseCase) Items(ctx context.Context, saleID string) ([]dto.SaleItemResponse, error) {
	if !dto.ValidID(saleID) {
		return nil, domain.ErrInvalidInput
	}
	list, err := querycache.Get(ctx, uc.cache, querykeys.With(querykeys.SaleItems, saleID), uc.stale,
		func(ctx context.Context) ([]entity.SaleItem, error) {
			return uc.sales.Items(ctx, saleID)
		})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, dto.SaleItemResponse{
			ID: it.ID, ProductID: it.ProductID, ProductName: it.ProductName, Quantity: it.Quantity,
			Price: it.Price, TaxRate: it.TaxRate, LineTotal: it.LineTotal(),
		})
	}
	return out, nil
}

// Metrics resumen de los últimos days días (7 por defecto).
func (uc *SalesUseCase) Metrics(ctx context.Context, days int) (*dto.SalesMetricsResponse, error) {
	if days <= 0 {
		days = defaultDays
	}
	m, err := querycache.Get(ctx, uc.cache, querykeys.With(querykeys.SalesMetrics, days), uc.stale,
		func(ctx context.Context) (*entity.SalesMetrics, error) {
			return uc.sales.Metrics(ctx, days)
		})
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &entity.SalesMetrics{}
	}
	return &dto.SalesMetricsResponse{
		Days: days, SalesCount: m.SalesCount, Revenue: m.Revenue, AOV: m.AOV,
		SalesToday: m.SalesToday, RevenueToday: m.RevenueToday,
		TopProductName: m.TopProductName, TopProductQty: m.TopProductQty,
	}, nil
}

// InvoicePDF factura A4 de la venta. Devuelve bytes y nombre de archivo.
func (uc *SalesUseCase) InvoicePDF(ctx context.Context, saleID string) ([]byte, string, error) {
	doc, err := uc.document(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.docs.SaleInvoicePDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: factura de venta: %w", err)
	}
	return b, fmt.Sprintf("invoice-%s.pdf", money.ShortID(saleID)), nil
}

// ReceiptPDF recibo de 80 mm de la venta.
func (uc *SalesUseCase) ReceiptPDF(ctx context.Context, saleID string) ([]byte, string, error) {
	doc, err := uc.document(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.docs.ReceiptPDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: recibo: %w", err)
	}
	return b, fmt.Sprintf("receipt-%s.pdf", money.ShortID(saleID)), nil
}

func (uc *SalesUseCase) document(ctx context.Context, saleID string) (*SaleDocument, error) {
	if !dto.ValidID(saleID) {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.sales.Items(ctx, saleID)
	if err != nil {
		return nil, err
	}
	summary, err := uc.payments.SaleSummary(ctx, saleID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.payments.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return &SaleDocument{Sale: *sale, Items: items, Summary: summary, Payments: payments}, nil
}

// DayRange expande fechas YYYY-MM-DD a [inicio de from, inicio del día siguiente a to) en loc.
// Una fecha vacía deja ese extremo abierto.
func DayRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if from = strings.TrimSpace(from); from != "" {
		t, err := time.ParseInLocation(dayLayout, from, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date_from %q", domain.ErrInvalidInput, from)
		}
		start = &t
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := time.ParseInLocation(dayLayout, to, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date_to %q", domain.ErrInvalidInput, to)
		}
		next := t.AddDate(0, 0, 1)
		end = &next
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, fmt.Errorf("%w: date_from posterior a date_to", domain.ErrInvalidInput)
	}
	return start, end, nil
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	name := s.CustomerName
	if name == "" {
		name = "Walk-in Customer"
	}
	return dto.SaleResponse{
		ID: s.ID, CreatedAt: s.CreatedAt, CustomerID: s.CustomerID, CustomerName: name,
		Subtotal: s.Subtotal, TaxAmount: s.TaxAmount, Total: s.Total, ItemCount: s.ItemCount,
		PaidTotal: s.PaidTotal, BalanceDue: s.BalanceDue,
	}
}
