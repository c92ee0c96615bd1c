package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/application/fakes"
	"github.com/jhoicas/eggpro-erp/internal/application/sales"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
)

const saleID = "9a7b6c5d-4e3f-4a1b-8c2d-3e4f5a6b7c01"

type docStub struct {
	last *sales.SaleDocument
}

func (s *docStub) SaleInvoicePDF(_ context.Context, doc sales.SaleDocument) ([]byte, error) {
	s.last = &doc
	return []byte("%PDF-invoice"), nil
}

func (s *docStub) ReceiptPDF(_ context.Context, doc sales.SaleDocument) ([]byte, error) {
	s.last = &doc
	return []byte("%PDF-receipt"), nil
}

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func TestDayRange_IncluyeAmbosDias(t *testing.T) {
	loc := bogota(t)
	from, to, err := sales.DayRange("2024-03-01", "2024-03-01", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), *from)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, loc), *to)

	from, to, err = sales.DayRange("", "", loc)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = sales.DayRange("2024-03-05", "2024-03-01", loc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = sales.DayRange("01/03/2024", "", loc)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_PasaRangoAlRepositorio(t *testing.T) {
	loc := bogota(t)
	repo := &fakes.Sales{}
	uc := sales.NewSalesUseCase(repo, &fakes.Payments{}, &docStub{}, querycache.New(), time.Minute, loc)

	_, err := uc.List(context.Background(), " eggs ", "2024-03-01", "2024-03-02", 0, 0)
	require.NoError(t, err)
	require.Len(t, repo.Filters, 1)
	f := repo.Filters[0]
	assert.Equal(t, "eggs", f.Query)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, loc), *f.To)
}

func TestGet_ClienteDeMostrador(t *testing.T) {
	repo := &fakes.Sales{Rows: []entity.Sale{{ID: saleID, Total: decimal.NewFromInt(10)}}}
	uc := sales.NewSalesUseCase(repo, &fakes.Payments{}, &docStub{}, querycache.New(), time.Minute, time.UTC)

	out, err := uc.Get(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, "Walk-in Customer", out.CustomerName)

	missing, err := uc.Get(context.Background(), "9a7b6c5d-4e3f-4a1b-8c2d-3e4f5a6b7c99")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMetrics_DiasPorDefecto(t *testing.T) {
	repo := &fakes.Sales{Metric: &entity.SalesMetrics{SalesCount: 4, TopProductName: "Eggs"}}
	uc := sales.NewSalesUseCase(repo, &fakes.Payments{}, &docStub{}, querycache.New(), time.Minute, time.UTC)

	m, err := uc.Metrics(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, m.Days)
	assert.Equal(t, 4, m.SalesCount)
	assert.Equal(t, "Eggs", m.TopProductName)
}

func TestPDFs_NombreYDocumento(t *testing.T) {
	repo := &fakes.Sales{
		Rows:  []entity.Sale{{ID: saleID, CustomerName: "Hotel Central", Total: decimal.NewFromInt(300)}},
		Lines: map[string][]entity.SaleItem{saleID: {{ID: "1", SaleID: saleID, ProductName: "Eggs", Quantity: 2, Price: decimal.NewFromInt(150)}}},
	}
	payments := &fakes.Payments{Summaries: map[string]*entity.SalePaymentSummary{
		saleID: {SaleID: saleID, TotalAmount: decimal.NewFromInt(300), TotalPaid: decimal.NewFromInt(100), BalanceDue: decimal.NewFromInt(200)},
	}}
	docs := &docStub{}
	uc := sales.NewSalesUseCase(repo, payments, docs, querycache.New(), time.Minute, time.UTC)

	b, name, err := uc.InvoicePDF(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-invoice", string(b))
	assert.Equal(t, "invoice-9a7b6c5d.pdf", name)
	require.NotNil(t, docs.last)
	assert.Len(t, docs.last.Items, 1)
	require.NotNil(t, docs.last.Summary)
	assert.True(t, decimal.NewFromInt(200).Equal(docs.last.Summary.BalanceDue))

	_, name, err = uc.ReceiptPDF(context.Background(), saleID)
	require.NoError(t, err)
	assert.Equal(t, "receipt-9a7b6c5d.pdf", name)

	_, _, err = uc.InvoicePDF(context.Background(), "9a7b6c5d-4e3f-4a1b-8c2d-3e4f5a6b7c99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
