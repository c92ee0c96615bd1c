package fakes

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

// Invoices repo de facturas en memoria. Number crece desde 1.
type Invoices struct {
	Calls
	Err   Errors
	Rows  []*entity.Invoice
	Lines map[string][]entity.InvoiceItem
}

var _ repository.InvoiceRepository = (*Invoices)(nil)

func (f *Invoices) Create(_ context.Context, inv *entity.Invoice) error {
	f.inc("Create")
	if err := f.Err.get("Create"); err != nil {
		return err
	}
	inv.ID = uuid.NewString()
	inv.Number = int64(len(f.Rows) + 1)
	inv.CreatedAt = time.Now()
	cp := *inv
	cp.Items = nil
	f.Rows = append(f.Rows, &cp)
	return nil
}

func (f *Invoices) CreateItem(_ context.Context, it *entity.InvoiceItem) error {
	f.inc("CreateItem")
	if err := f.Err.get("CreateItem"); err != nil {
		return err
	}
	it.ID = uuid.NewString()
	if f.Lines == nil {
		f.Lines = make(map[string][]entity.InvoiceItem)
	}
	f.Lines[it.InvoiceID] = append(f.Lines[it.InvoiceID], *it)
	return nil
}

func (f *Invoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	f.inc("GetByID")
	for _, inv := range f.Rows {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, f.Err.get("GetByID")
}

func (f *Invoices) Items(_ context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	f.inc("Items")
	out := append([]entity.InvoiceItem{}, f.Lines[invoiceID]...)
	return out, f.Err.get("Items")
}

func (f *Invoices) List(_ context.Context, flt repository.InvoiceFilter) ([]entity.Invoice, error) {
	f.inc("List")
	if err := f.Err.get("List"); err != nil {
		return nil, err
	}
	out := make([]entity.Invoice, 0)
	for _, inv := range f.Rows {
		if flt.Search == "" || strings.Contains(strings.ToLower(inv.CustomerName), strings.ToLower(flt.Search)) {
			out = append(out, *inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InvoiceDate.After(out[j].InvoiceDate) })
	return window(out, flt.Limit, flt.Offset), nil
}

// TxRunner ejecuta fn sobre copias de los repos y sólo publica los cambios si fn no falla,
// imitando commit y rollback.
type TxRunner struct {
	Invoices  *Invoices
	Customers *Customers
	Err       error
}

// ErrTx error de infraestructura simulado al abrir la transacción.
var ErrTx = errors.New("begin transaction: conexión rechazada")

func (r *TxRunner) RunInvoice(_ context.Context, fn func(repository.InvoiceRepository, repository.CustomerRepository) error) error {
	if r.Err != nil {
		return r.Err
	}
	staged := &Invoices{Err: r.Invoices.Err, Rows: append([]*entity.Invoice{}, r.Invoices.Rows...), Lines: make(map[string][]entity.InvoiceItem)}
	for k, v := range r.Invoices.Lines {
		staged.Lines[k] = append([]entity.InvoiceItem{}, v...)
	}
	if err := fn(staged, r.Customers); err != nil {
		return err
	}
	r.Invoices.Rows = staged.Rows
	r.Invoices.Lines = staged.Lines
	return nil
}

// Analytics repo de analítica con respuestas fijadas por el test.
type Analytics struct {
	Calls
	Err       Errors
	Customer  *entity.CustomerAnalytics
	Inventory *entity.InventoryAnalytics
	SalesA    *entity.SalesAnalytics
	Financial *entity.FinancialAnalytics
	Top       []entity.TopProduct
	Segments  []entity.CustomerSegment

	CustomerRows []entity.CustomerFact
	ProductRows  []entity.ProductFact
	SaleRows     []entity.SaleFact
	ItemRows     []entity.SaleItemFact
	InvoiceRows  []entity.InvoiceFact
}

var _ repository.AnalyticsRepository = (*Analytics)(nil)

func (f *Analytics) CustomerAnalytics(context.Context) (*entity.CustomerAnalytics, error) {
	f.inc("CustomerAnalytics")
	return f.Customer, f.Err.get("CustomerAnalytics")
}

func (f *Analytics) InventoryAnalytics(context.Context) (*entity.InventoryAnalytics, error) {
	f.inc("InventoryAnalytics")
	return f.Inventory, f.Err.get("InventoryAnalytics")
}

func (f *Analytics) SalesAnalytics(context.Context, int) (*entity.SalesAnalytics, error) {
	f.inc("SalesAnalytics")
	return f.SalesA, f.Err.get("SalesAnalytics")
}

func (f *Analytics) FinancialAnalytics(context.Context) (*entity.FinancialAnalytics, error) {
	f.inc("FinancialAnalytics")
	return f.Financial, f.Err.get("FinancialAnalytics")
}

func (f *Analytics) TopProducts(context.Context, int) ([]entity.TopProduct, error) {
	f.inc("TopProducts")
	return f.Top, f.Err.get("TopProducts")
}

func (f *Analytics) CustomerSegments(context.Context) ([]entity.CustomerSegment, error) {
	f.inc("CustomerSegments")
	return f.Segments, f.Err.get("CustomerSegments")
}

func (f *Analytics) CustomerFacts(context.Context) ([]entity.CustomerFact, error) {
	f.inc("CustomerFacts")
	return f.CustomerRows, f.Err.get("CustomerFacts")
}

func (f *Analytics) ProductFacts(context.Context) ([]entity.ProductFact, error) {
	f.inc("ProductFacts")
	return f.ProductRows, f.Err.get("ProductFacts")
}

func (f *Analytics) SaleFacts(context.Context, time.Time) ([]entity.SaleFact, error) {
	f.inc("SaleFacts")
	return f.SaleRows, f.Err.get("SaleFacts")
}

func (f *Analytics) SaleItemFacts(context.Context, time.Time) ([]entity.SaleItemFact, error) {
	f.inc("SaleItemFacts")
	return f.ItemRows, f.Err.get("SaleItemFacts")
}

func (f *Analytics) InvoiceFacts(context.Context) ([]entity.InvoiceFact, error) {
	f.inc("InvoiceFacts")
	return f.InvoiceRows, f.Err.get("InvoiceFacts")
}

func (f *Analytics) BulkUpdateLowStock(context.Context) error {
	f.inc("BulkUpdateLowStock")
	return f.Err.get("BulkUpdateLowStock")
}

func (f *Analytics) MarkAllBalancesPaid(context.Context) error {
	f.inc("MarkAllBalancesPaid")
	return f.Err.get("MarkAllBalancesPaid")
}

// Users repo de usuarios en memoria (email sin distinguir mayúsculas).
type Users struct {
	Calls
	Err  Errors
	Rows []entity.User
}

var _ repository.UserRepository = (*Users)(nil)

func (f *Users) Create(_ context.Context, u *entity.User) error {
	f.inc("Create")
	if err := f.Err.get("Create"); err != nil {
		return err
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.Rows = append(f.Rows, *u)
	return nil
}

func (f *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.inc("GetByID")
	for _, u := range f.Rows {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, f.Err.get("GetByID")
}

func (f *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.inc("GetByEmail")
	for _, u := range f.Rows {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, f.Err.get("GetByEmail")
}

func (f *Users) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	f.inc("List")
	return window(append([]entity.User{}, f.Rows...), limit, offset), f.Err.get("List")
}
