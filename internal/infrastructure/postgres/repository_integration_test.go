package postgres_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/eggpro-erp/pkg/config"
)

const migrationsDir = "../../../migrations"

type repositorySuite struct {
	suite.Suite

	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool

	customers *postgres.CustomerRepo
	products  *postgres.ProductRepo
	stock     *postgres.StockRepo
	sales     *postgres.SaleRepo
	payments  *postgres.PaymentRepo
	invoices  *postgres.InvoiceRepo
	users     *postgres.UserRepo
	analytics *postgres.AnalyticsRepo
	tx        *postgres.TxRunner
}

// Requiere Docker; se omite con -short.
func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(repositorySuite))
}

func (s *repositorySuite) SetupSuite() {
	ctx := s.T().Context()

	container, err := tcpostgres.Run(ctx, "postgres:17.6-alpine3.22", tcpostgres.BasicWaitStrategies())
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(postgres.MigrateUp(connStr, migrationsDir))

	opts := postgres.DefaultPoolOptions()
	opts.MaxConns, opts.MinConns, opts.PreferIPv4 = 4, 0, false
	s.pool, err = postgres.NewPool(ctx, config.DBConfig{DatabaseURL: connStr}, opts)
	s.Require().NoError(err)

	fixtures, err := os.ReadFile("testdata/procedures.sql")
	s.Require().NoError(err)
	_, err = s.pool.Exec(ctx, string(fixtures))
	s.Require().NoError(err)

	s.customers = postgres.NewCustomerRepository(s.pool)
	s.products = postgres.NewProductRepository(s.pool)
	s.stock = postgres.NewStockRepository(s.pool)
	s.sales = postgres.NewSaleRepository(s.pool)
	s.payments = postgres.NewPaymentRepository(s.pool)
	s.invoices = postgres.NewInvoiceRepository(s.pool)
	s.users = postgres.NewUserRepository(s.pool)
	s.analytics = postgres.NewAnalyticsRepository(s.pool)
	s.tx = postgres.NewTxRunner(s.pool)
}

func (s *repositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *repositorySuite) TearDownTest() {
	_, err := s.pool.Exec(context.Background(),
		`TRUNCATE invoice_items, invoices, payments, sale_items, sales, stock_movements, products, customers, users CASCADE`)
	s.NoError(err)
}

func (s *repositorySuite) newProduct(stock int, price, taxRate int64) *entity.Product {
	p := &entity.Product{
		Name:     gofakeit.ProductName(),
		SKU:      strings.ToUpper(gofakeit.LetterN(3)) + "-" + gofakeit.DigitN(6),
		Category: gofakeit.ProductCategory(),
		Stock:    stock,
		MinStock: 5,
		Price:    decimal.NewFromInt(price),
		TaxRate:  decimal.NewFromInt(taxRate),
	}
	s.Require().NoError(s.products.Create(s.T().Context(), p))
	return p
}

func (s *repositorySuite) newCustomer() *entity.Customer {
	c := &entity.Customer{
		Name:   gofakeit.Company(),
		Email:  gofakeit.Email(),
		Phone:  gofakeit.Phone(),
		Type:   entity.CustomerTypeWholesale,
		City:   gofakeit.City(),
		Status: entity.CustomerStatusActive,
	}
	s.Require().NoError(s.customers.Create(s.T().Context(), c))
	return c
}

func (s *repositorySuite) TestProductCRUD() {
	ctx := s.T().Context()
	p := s.newProduct(12, 150, 15)

	got, err := s.products.GetByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	diff := cmp.Diff(*p, *got,
		cmpopts.IgnoreFields(entity.Product{}, "CreatedAt"),
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }))
	s.Empty(diff)

	dup := *p
	dup.ID = ""
	s.ErrorIs(s.products.Create(ctx, &dup), domain.ErrDuplicate)

	price := decimal.NewFromInt(175)
	updated, err := s.products.Update(ctx, p.ID, entity.ProductPatch{Price: &price})
	s.Require().NoError(err)
	s.True(updated.Price.Equal(price))
	s.Equal(12, updated.Stock)

	list, err := s.products.Search(ctx, p.SKU, 10, 0, false)
	s.Require().NoError(err)
	s.Len(list, 1)

	missing, err := s.products.GetByID(ctx, gofakeit.UUID())
	s.NoError(err)
	s.Nil(missing)
}

func (s *repositorySuite) TestStockMovements() {
	ctx := s.T().Context()
	p := s.newProduct(3, 40, 0)

	n, err := s.stock.Move(ctx, repository.StockMove{ProductID: p.ID, Delta: 7, Reason: "delivery"})
	s.Require().NoError(err)
	s.Equal(10, n)

	_, err = s.stock.Move(ctx, repository.StockMove{ProductID: p.ID, Delta: -11, Reason: "breakage"})
	s.ErrorIs(err, domain.ErrInsufficientStock)

	s.Require().NoError(s.stock.Set(ctx, p.ID, 4, "count"))

	low, err := s.products.Search(ctx, "", 50, 0, true)
	s.Require().NoError(err)
	s.Len(low, 1, "4 <= min 5")

	moves, err := s.stock.ListMovements(ctx, p.ID, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(moves, 2)
	s.Equal(-6, moves[0].Delta)
	s.Equal(7, moves[1].Delta)
}

func (s *repositorySuite) TestCheckoutAndPayments() {
	ctx := s.T().Context()
	c := s.newCustomer()
	p := s.newProduct(10, 100, 10)

	full, err := s.sales.Checkout(ctx, repository.CheckoutRequest{
		Lines: []entity.CheckoutLine{{ProductID: p.ID, Quantity: 2}},
	})
	s.Require().NoError(err)
	s.True(full.Total.Equal(decimal.NewFromInt(220)), full.Total.String())

	sale, err := s.sales.GetByID(ctx, full.SaleID)
	s.Require().NoError(err)
	s.Empty(sale.CustomerID, "mostrador")
	s.True(sale.BalanceDue.IsZero())

	partial := decimal.NewFromInt(50)
	note := "pagará el viernes"
	credit, err := s.sales.Checkout(ctx, repository.CheckoutRequest{
		CustomerID:    c.ID,
		Lines:         []entity.CheckoutLine{{ProductID: p.ID, Quantity: 1}},
		PartialAmount: &partial,
		Note:          &note,
	})
	s.Require().NoError(err)

	summary, err := s.payments.SaleSummary(ctx, credit.SaleID)
	s.Require().NoError(err)
	s.Equal(entity.PaymentStatusPartial, summary.PaymentStatus)
	s.True(summary.BalanceDue.Equal(decimal.NewFromInt(60)), summary.BalanceDue.String())
	s.Equal(c.Name, summary.CustomerName)

	s.Require().NoError(s.payments.Create(ctx, &entity.Payment{
		SaleID: credit.SaleID, CustomerID: c.ID, AmountPaid: decimal.NewFromInt(60),
		PaymentMethod: entity.PaymentMethodCard, PaymentDate: time.Now(),
	}))
	paid, err := s.payments.ListBySale(ctx, credit.SaleID)
	s.Require().NoError(err)
	s.Len(paid, 2)

	summary, err = s.payments.SaleSummary(ctx, credit.SaleID)
	s.Require().NoError(err)
	s.Equal(entity.PaymentStatusPaid, summary.PaymentStatus)

	items, err := s.sales.Items(ctx, credit.SaleID)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(p.Name, items[0].ProductName)

	found, err := s.sales.Search(ctx, repository.SalesFilter{Query: c.Name, Limit: 10})
	s.Require().NoError(err)
	s.Len(found, 1)

	left, err := s.products.GetByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(7, left.Stock)
}

func (s *repositorySuite) TestCheckoutInsufficientStockIsAtomic() {
	ctx := s.T().Context()
	a := s.newProduct(5, 10, 0)
	b := s.newProduct(1, 10, 0)

	_, err := s.sales.Checkout(ctx, repository.CheckoutRequest{
		Lines: []entity.CheckoutLine{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 3}},
	})
	s.ErrorIs(err, domain.ErrInsufficientStock)

	got, err := s.products.GetByID(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(5, got.Stock)

	list, err := s.sales.Search(ctx, repository.SalesFilter{Limit: 10})
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *repositorySuite) TestCheckoutUnknownCustomer() {
	ctx := s.T().Context()
	p := s.newProduct(5, 10, 0)

	_, err := s.sales.Checkout(ctx, repository.CheckoutRequest{
		CustomerID: gofakeit.UUID(), Lines: []entity.CheckoutLine{{ProductID: p.ID, Quantity: 1}},
	})
	s.ErrorIs(err, domain.ErrInvalidInput)
	s.NotErrorIs(err, domain.ErrReferenced)

	got, err := s.products.GetByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(5, got.Stock)
}

func (s *repositorySuite) TestCustomerDeleteReferenced() {
	ctx := s.T().Context()
	c := s.newCustomer()
	p := s.newProduct(5, 10, 0)
	_, err := s.sales.Checkout(ctx, repository.CheckoutRequest{
		CustomerID: c.ID, Lines: []entity.CheckoutLine{{ProductID: p.ID, Quantity: 1}},
	})
	s.Require().NoError(err)

	s.ErrorIs(s.customers.Delete(ctx, c.ID), domain.ErrReferenced)
	s.ErrorIs(s.customers.Delete(ctx, gofakeit.UUID()), domain.ErrNotFound)

	list, err := s.customers.Search(ctx, c.Name, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(1, list[0].TotalOrders)
}

func (s *repositorySuite) TestInvoiceTransaction() {
	ctx := s.T().Context()
	c := s.newCustomer()
	today := entity.DateOnly(time.Now())

	var created *entity.Invoice
	err := s.tx.RunInvoice(ctx, func(invoices repository.InvoiceRepository, customers repository.CustomerRepository) error {
		cust, err := customers.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		s.Require().NotNil(cust)
		inv := &entity.Invoice{
			CustomerID: c.ID, InvoiceDate: today, DueDate: today.AddDate(0, 0, 30), Terms: entity.DefaultInvoiceTerms,
			Status: entity.InvoiceStatusPending, Subtotal: decimal.NewFromInt(200), TaxTotal: decimal.NewFromInt(17),
			Total: decimal.NewFromInt(217), PaidAmount: decimal.Zero,
		}
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		it := &entity.InvoiceItem{
			InvoiceID: inv.ID, Name: "Eggs tray", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100),
			TaxRate: decimal.RequireFromString("8.5"), Subtotal: decimal.NewFromInt(200), TaxAmount: decimal.NewFromInt(17),
		}
		created = inv
		return invoices.CreateItem(ctx, it)
	})
	s.Require().NoError(err)
	s.Positive(created.Number)

	got, err := s.invoices.GetByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(c.Name, got.CustomerName)
	s.True(got.BalanceDue().Equal(decimal.NewFromInt(217)))

	items, err := s.invoices.Items(ctx, created.ID)
	s.Require().NoError(err)
	s.Len(items, 1)

	list, err := s.invoices.List(ctx, repository.InvoiceFilter{Search: created.Reference(), Limit: 10})
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *repositorySuite) TestInvoiceTransactionRollsBack() {
	ctx := s.T().Context()
	c := s.newCustomer()
	today := entity.DateOnly(time.Now())

	err := s.tx.RunInvoice(ctx, func(invoices repository.InvoiceRepository, _ repository.CustomerRepository) error {
		inv := &entity.Invoice{CustomerID: c.ID, InvoiceDate: today, DueDate: today, Terms: "Net 0",
			Status: entity.InvoiceStatusPending}
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		return invoices.CreateItem(ctx, &entity.InvoiceItem{InvoiceID: inv.ID, Name: "bad", Quantity: decimal.Zero})
	})
	s.Error(err)

	list, err := s.invoices.List(ctx, repository.InvoiceFilter{Limit: 10})
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *repositorySuite) TestUsers() {
	ctx := s.T().Context()
	u := &entity.User{Email: gofakeit.Email(), PasswordHash: "x", Name: gofakeit.Name(),
		Role: entity.RoleStaff, Status: "active"}
	s.Require().NoError(s.users.Create(ctx, u))
	s.NotEmpty(u.ID)

	dup := *u
	dup.Email = strings.ToUpper(u.Email)
	s.ErrorIs(s.users.Create(ctx, &dup), domain.ErrEmailAlreadyExists)

	got, err := s.users.GetByEmail(ctx, strings.ToUpper(u.Email))
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
}

func (s *repositorySuite) TestAnalyticsFactsWithoutProcedures() {
	ctx := s.T().Context()
	s.newProduct(2, 30, 0)
	s.newCustomer()

	_, err := s.analytics.InventoryAnalytics(ctx)
	s.Error(err, "get_inventory_analytics no existe en los fixtures")

	products, err := s.analytics.ProductFacts(ctx)
	s.Require().NoError(err)
	s.Len(products, 1)

	customers, err := s.analytics.CustomerFacts(ctx)
	s.Require().NoError(err)
	s.Len(customers, 1)
	s.Equal(entity.CustomerTypeWholesale, customers[0].Type)
}
