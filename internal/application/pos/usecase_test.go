package pos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/fakes"
	"github.com/jhoicas/eggpro-erp/internal/application/inventory"
	"github.com/jhoicas/eggpro-erp/internal/application/pos"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

const (
	eggsID     = "5d8f1c2a-1b3e-4f6a-8c9d-0e1f2a3b4c01"
	flourID    = "5d8f1c2a-1b3e-4f6a-8c9d-0e1f2a3b4c02"
	customerID = "5d8f1c2a-1b3e-4f6a-8c9d-0e1f2a3b4cff"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	uc       *pos.CheckoutUseCase
	products *fakes.Products
	sales    *fakes.Sales
	cache    *querycache.Cache
}

func setup() env {
	products := fakes.NewProducts(
		entity.Product{ID: eggsID, Name: "Eggs tray 30", SKU: "EGG-30", Stock: 3, Price: d("150"), TaxRate: d("10")},
		entity.Product{ID: flourID, Name: "Flour 1kg", SKU: "FLR-1", Stock: 10, Price: d("40")},
	)
	cache := querycache.New()
	log := logger.Nop()
	catalog := inventory.NewProductUseCase(products, cache, time.Minute, log)
	sales := &fakes.Sales{Products: products}
	return env{uc: pos.NewCheckoutUseCase(sales, catalog, cache, log), products: products, sales: sales, cache: cache}
}

func items(pairs ...any) []dto.CartItemRequest {
	out := make([]dto.CartItemRequest, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, dto.CartItemRequest{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func TestQuote_RecortaAlStockYAvisa(t *testing.T) {
	e := setup()

	q, err := e.uc.Quote(context.Background(), dto.QuoteRequest{Items: items(eggsID, 5, flourID, 2, "ghost", 1)})
	require.NoError(t, err)
	require.Len(t, q.Lines, 3)

	assert.Equal(t, 3, q.Lines[0].Quantity)
	assert.Equal(t, 5, q.Lines[0].Requested)
	assert.Contains(t, q.Lines[0].Warning, "sólo hay 3")
	assert.Empty(t, q.Lines[1].Warning)
	assert.Zero(t, q.Lines[2].Quantity)
	assert.NotEmpty(t, q.Lines[2].Warning)

	// 3 × 150 + 2 × 40 = 530; impuesto 45
	assert.True(t, d("530").Equal(q.Subtotal), q.Subtotal.String())
	assert.True(t, d("45").Equal(q.Tax), q.Tax.String())
	assert.True(t, d("575").Equal(q.Total), q.Total.String())
}

func TestQuote_CarritoVacio(t *testing.T) {
	e := setup()
	_, err := e.uc.Quote(context.Background(), dto.QuoteRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckout_PagoCompletoEInvalidacion(t *testing.T) {
	e := setup()
	ctx := context.Background()
	e.cache.Set(querykeys.With(querykeys.Products, "", 100, 0, false), []entity.Product{})
	e.cache.Set(querykeys.With(querykeys.Customers, "", 50, 0), []entity.Customer{})
	e.cache.Set(querykeys.CustomerSegments, []entity.CustomerSegment{})

	res, err := e.uc.Checkout(ctx, dto.CheckoutRequest{Items: items(eggsID, 1, flourID, 1, eggsID, 1)})
	require.NoError(t, err)

	require.Len(t, e.sales.Requests, 1)
	lines := e.sales.Requests[0].Lines
	require.Len(t, lines, 2, "las líneas repetidas se fusionan")
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Empty(t, e.sales.Requests[0].CustomerID)

	assert.True(t, res.Total.Equal(res.PaidAmount))
	assert.True(t, res.BalanceDue.IsZero())
	assert.False(t, res.PartialPayment)
	assert.Equal(t, 1, e.products.Rows[eggsID].Stock)

	assert.True(t, staleUnder(e.cache, querykeys.Products))
	assert.True(t, staleUnder(e.cache, querykeys.Customers), "total_spent cambia con cada venta")
	assert.True(t, staleUnder(e.cache, querykeys.CustomerSegments))
}

func staleUnder(c *querycache.Cache, prefix querycache.Key) bool {
	entries := c.Entries(func(k querycache.Key) bool { return k.HasPrefix(prefix) })
	for _, e := range entries {
		if !e.Stale {
			return false
		}
	}
	return len(entries) > 0
}

func TestCheckout_AbonoParcial(t *testing.T) {
	e := setup()
	partial := d("100")
	note := "   "
	cid := customerID

	res, err := e.uc.Checkout(context.Background(), dto.CheckoutRequest{
		CustomerID: &cid, Items: items(eggsID, 2), PartialAmount: &partial, Note: &note,
	})
	require.NoError(t, err)
	assert.True(t, res.PartialPayment)
	assert.True(t, d("100").Equal(res.PaidAmount))
	assert.True(t, d("230").Equal(res.BalanceDue), res.BalanceDue.String())
	assert.Nil(t, e.sales.Requests[0].Note, "una nota en blanco no se envía")
	assert.Equal(t, customerID, e.sales.Requests[0].CustomerID)
}

func TestCheckout_Rechazos(t *testing.T) {
	e := setup()
	ctx := context.Background()
	zero := decimal.Zero
	bad := "cliente"

	_, err := e.uc.Checkout(ctx, dto.CheckoutRequest{Items: items(eggsID, 1), PartialAmount: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Checkout(ctx, dto.CheckoutRequest{CustomerID: &bad, Items: items(eggsID, 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Checkout(ctx, dto.CheckoutRequest{Items: items(eggsID, 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, e.sales.Requests, "nada llega al backend")

	_, err = e.uc.Checkout(ctx, dto.CheckoutRequest{Items: items(eggsID, 4)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, e.products.Rows[eggsID].Stock)
}

func TestCheckout_ErrorDelBackendNoInvalida(t *testing.T) {
	e := setup()
	key := querykeys.With(querykeys.Sales, "", "", "", 50, 0)
	e.cache.Set(key, []entity.Sale{})
	e.sales.Err = fakes.Errors{"Checkout": errors.New("connection reset")}

	_, err := e.uc.Checkout(context.Background(), dto.CheckoutRequest{Items: items(flourID, 1)})
	require.Error(t, err)
	assert.False(t, staleUnder(e.cache, querykeys.Sales))
}
