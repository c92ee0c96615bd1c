package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/application/analytics"
	"github.com/jhoicas/eggpro-erp/internal/application/auth"
	"github.com/jhoicas/eggpro-erp/internal/application/billing"
	"github.com/jhoicas/eggpro-erp/internal/application/customers"
	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/fakes"
	"github.com/jhoicas/eggpro-erp/internal/application/inventory"
	"github.com/jhoicas/eggpro-erp/internal/application/payments"
	"github.com/jhoicas/eggpro-erp/internal/application/pos"
	"github.com/jhoicas/eggpro-erp/internal/application/sales"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/ubl"
	apphttp "github.com/jhoicas/eggpro-erp/internal/interfaces/http"
	appconfig "github.com/jhoicas/eggpro-erp/pkg/config"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
	"github.com/jhoicas/eggpro-erp/pkg/money"
)

const (
	eggsID  = "5b0c1a64-2f3e-4d1a-9b7c-0e1f2a3b4c5d"
	flourID = "7d2e3c86-4a5b-4f3c-8d9e-2a3b4c5d6e7f"
)

type testServer struct {
	app       *fiber.App
	customers *fakes.Customers
	products  *fakes.Products
	sales     *fakes.Sales
	users     *fakes.Users
	authUC    *auth.AuthUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Nop()
	cache := querycache.New()
	loc := time.UTC
	store := appconfig.StoreConfig{Name: "EggPro Farm"}

	customerRepo := fakes.NewCustomers()
	productRepo := fakes.NewProducts(
		entity.Product{ID: eggsID, Name: "Eggs tray", SKU: "EGG-30", Stock: 10, MinStock: 4,
			Price: decimal.NewFromInt(150), TaxRate: decimal.NewFromInt(10)},
		entity.Product{ID: flourID, Name: "Flour 1kg", SKU: "FLR-1", Stock: 0, MinStock: 2,
			Price: decimal.NewFromInt(40), TaxRate: decimal.Zero},
	)
	stockRepo := &fakes.Stock{Products: productRepo}
	saleRepo := &fakes.Sales{Products: productRepo}
	paymentRepo := &fakes.Payments{}
	invoiceRepo := &fakes.Invoices{}
	users := &fakes.Users{}

	productUC := inventory.NewProductUseCase(productRepo, cache, time.Minute, log)
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log)
	docs := pdf.NewMarotoPDFGenerator(store, money.MustNew("MUR"), loc)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		CustomerUC:  customers.NewCustomerUseCase(customerRepo, cache, time.Minute, log),
		ProductUC:   productUC,
		StockUC:     inventory.NewStockUseCase(stockRepo, cache, time.Minute, log),
		CheckoutUC:  pos.NewCheckoutUseCase(saleRepo, productUC, cache, log),
		SalesUC:     sales.NewSalesUseCase(saleRepo, paymentRepo, docs, cache, time.Minute, loc),
		PaymentUC:   payments.NewPaymentUseCase(paymentRepo, cache, time.Minute, log),
		AnalyticsUC: analytics.NewAnalyticsUseCase(&fakes.Analytics{}, cache, time.Minute, loc, log),
		InvoiceUC: billing.NewInvoiceUseCase(&fakes.TxRunner{Invoices: invoiceRepo, Customers: customerRepo},
			invoiceRepo, docs, ubl.NewExporter(store, "MUR"), cache, time.Minute, loc, log),
		AuthUC:    authUC,
		JWTSecret: testJWTSecret,
	})
	return &testServer{app: app, customers: customerRepo, products: productRepo, sales: saleRepo, users: users, authUC: authUC}
}

func (s *testServer) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_LoginIsPublic(t *testing.T) {
	s := newTestServer(t)
	_, err := s.authUC.RegisterUser(t.Context(), dto.RegisterRequest{Email: "staff@eggpro.mu", Password: "secreto123"})
	require.NoError(t, err)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "staff@eggpro.mu", Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleStaff, out.User.Role)

	me := s.do(t, http.MethodGet, "/api/auth/me", "Bearer "+out.Token, nil)
	require.Equal(t, http.StatusOK, me.StatusCode)
	assert.Equal(t, "staff@eggpro.mu", decode[dto.UserResponse](t, me).Email)
}

func TestRouter_LoginWrongPasswordAndUnknownUserLookTheSame(t *testing.T) {
	s := newTestServer(t)
	_, err := s.authUC.RegisterUser(t.Context(), dto.RegisterRequest{Email: "staff@eggpro.mu", Password: "secreto123"})
	require.NoError(t, err)

	wrong := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "staff@eggpro.mu", Password: "otra-cosa"})
	unknown := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nadie@eggpro.mu", Password: "secreto123"})

	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[dto.ErrorResponse](t, wrong).Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[dto.ErrorResponse](t, unknown).Code)
}

func TestRouter_RegisterIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	in := dto.RegisterRequest{Email: "nuevo@eggpro.mu", Password: "secreto123"}

	resp := s.do(t, http.MethodPost, "/api/auth/register", tokenForRole(t, entity.RoleStaff), in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/register", tokenForRole(t, entity.RoleAdmin), in)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/register", tokenForRole(t, entity.RoleAdmin), in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_CustomerCRUD(t *testing.T) {
	s := newTestServer(t)
	staff := tokenForRole(t, entity.RoleStaff)

	resp := s.do(t, http.MethodPost, "/api/customers", staff, dto.CreateCustomerRequest{Name: "Chez Marie"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CustomerResponse](t, resp)
	assert.Equal(t, entity.CustomerTypeRetail, created.Type)

	resp = s.do(t, http.MethodPost, "/api/customers", staff, dto.CreateCustomerRequest{Name: "X", Email: "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	city := "Curepipe"
	resp = s.do(t, http.MethodPatch, "/api/customers/"+created.ID, staff, dto.UpdateCustomerRequest{City: &city})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Curepipe", decode[dto.CustomerResponse](t, resp).City)

	resp = s.do(t, http.MethodDelete, "/api/customers/"+created.ID, staff, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	s.customers.Err = fakes.Errors{"Delete": domain.ErrReferenced}
	resp = s.do(t, http.MethodDelete, "/api/customers/"+created.ID, tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REFERENCED", decode[dto.ErrorResponse](t, resp).Code)

	s.customers.Err = nil
	resp = s.do(t, http.MethodDelete, "/api/customers/"+created.ID, tokenForRole(t, entity.RoleAdmin), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_ProductList(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/products?low_stock=true", tokenForRole(t, entity.RoleStaff), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ProductListResponse](t, resp)
	require.Len(t, out.Items, 1)
	assert.Equal(t, flourID, out.Items[0].ID)
	assert.Equal(t, "critical", out.Items[0].StockStatus)
}

func TestRouter_CheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	staff := tokenForRole(t, entity.RoleStaff)

	resp := s.do(t, http.MethodGet, "/api/pos/products", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.PosProductResponse](t, resp), 1, "sólo productos con stock")

	resp = s.do(t, http.MethodPost, "/api/pos/checkout", staff, dto.CheckoutRequest{
		Items: []dto.CartItemRequest{{ProductID: eggsID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.CheckoutResponse](t, resp)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(330)), out.Total.String())
	assert.True(t, out.BalanceDue.IsZero())
	assert.Equal(t, 8, s.products.Rows[eggsID].Stock)

	resp = s.do(t, http.MethodGet, "/api/sales/"+out.SaleID+"/receipt.pdf", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "receipt-")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRouter_CheckoutErrors(t *testing.T) {
	s := newTestServer(t)
	staff := tokenForRole(t, entity.RoleStaff)

	resp := s.do(t, http.MethodPost, "/api/pos/checkout", staff, dto.CheckoutRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_CART", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/api/pos/checkout", staff, dto.CheckoutRequest{
		Items: []dto.CartItemRequest{{ProductID: eggsID, Quantity: 50}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/pos/checkout", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", staff)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_QuickActionsAdminOnly(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/analytics/actions/mark-all-balances-paid", tokenForRole(t, entity.RoleStaff), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/analytics/actions/mark-all-balances-paid", tokenForRole(t, entity.RoleAdmin), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_InvoiceXML(t *testing.T) {
	s := newTestServer(t)
	staff := tokenForRole(t, entity.RoleStaff)

	resp := s.do(t, http.MethodPost, "/api/customers", staff, dto.CreateCustomerRequest{Name: "Chez Marie"})
	customer := decode[dto.CustomerResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/invoices", staff, dto.CreateInvoiceRequest{
		CustomerID: customer.ID,
		Items: []dto.InvoiceItemRequest{
			{Name: "Eggs", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100)},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "INV-00001", inv.Reference)

	resp = s.do(t, http.MethodGet, "/api/invoices/"+inv.ID+"/xml", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "INV-00001.xml")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NoError(t, ubl.Verify(body))
}

func TestRouter_NotFound(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/products/"+flourID[:35]+"0", tokenForRole(t, entity.RoleStaff), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}
