// Package fakes implementaciones en memoria de los puertos de repositorio para los tests
// de los casos de uso. Cada fake permite inyectar un error por método.
package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

// Errors errores a devolver por nombre de método ("Create", "Delete"...).
type Errors map[string]error

func (e Errors) get(method string) error {
	if e == nil {
		return nil
	}
	return e[method]
}

// Calls contador de llamadas por método, seguro para uso concurrente.
type Calls struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *Calls) inc(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = make(map[string]int)
	}
	c.n[method]++
}

// Count llamadas registradas para method.
func (c *Calls) Count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[method]
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// Customers repo de clientes en memoria.
type Customers struct {
	Calls
	Err  Errors
	Rows map[string]*entity.Customer
}

var _ repository.CustomerRepository = (*Customers)(nil)

// NewCustomers repo vacío.
func NewCustomers() *Customers { return &Customers{Rows: make(map[string]*entity.Customer)} }

func (f *Customers) Search(_ context.Context, query string, limit, offset int) ([]entity.Customer, error) {
	f.inc("Search")
	if err := f.Err.get("Search"); err != nil {
		return nil, err
	}
	out := make([]entity.Customer, 0)
	for _, c := range f.Rows {
		if query == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, limit, offset), nil
}

func (f *Customers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	f.inc("GetByID")
	if err := f.Err.get("GetByID"); err != nil {
		return nil, err
	}
	if c, ok := f.Rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *Customers) Create(_ context.Context, c *entity.Customer) error {
	f.inc("Create")
	if err := f.Err.get("Create"); err != nil {
		return err
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	cp := *c
	f.Rows[c.ID] = &cp
	return nil
}

func (f *Customers) Update(_ context.Context, id string, p entity.CustomerPatch) (*entity.Customer, error) {
	f.inc("Update")
	if err := f.Err.get("Update"); err != nil {
		return nil, err
	}
	c, ok := f.Rows[id]
	if !ok {
		return nil, nil
	}
	set(&c.Name, p.Name)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Type, p.Type)
	set(&c.Address, p.Address)
	set(&c.City, p.City)
	set(&c.State, p.State)
	set(&c.ZipCode, p.ZipCode)
	set(&c.Notes, p.Notes)
	set(&c.Status, p.Status)
	cp := *c
	return &cp, nil
}

func (f *Customers) Delete(_ context.Context, id string) error {
	f.inc("Delete")
	if err := f.Err.get("Delete"); err != nil {
		return err
	}
	if _, ok := f.Rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.Rows, id)
	return nil
}

func (f *Customers) ListForPOS(ctx context.Context, search string, limit int) ([]entity.PosCustomer, error) {
	f.inc("ListForPOS")
	list, err := f.Search(ctx, search, limit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PosCustomer, 0, len(list))
	for _, c := range list {
		out = append(out, entity.PosCustomer{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

// Products repo de productos en memoria.
type Products struct {
	Calls
	Err  Errors
	Rows map[string]*entity.Product
}

var _ repository.ProductRepository = (*Products)(nil)

// NewProducts repo con los productos dados.
func NewProducts(list ...entity.Product) *Products {
	f := &Products{Rows: make(map[string]*entity.Product)}
	for i := range list {
		p := list[i]
		f.Rows[p.ID] = &p
	}
	return f
}

func (f *Products) sorted() []entity.Product {
	out := make([]entity.Product, 0, len(f.Rows))
	for _, p := range f.Rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *Products) Search(_ context.Context, query string, limit, offset int, lowStockOnly bool) ([]entity.Product, error) {
	f.inc("Search")
	if err := f.Err.get("Search"); err != nil {
		return nil, err
	}
	out := make([]entity.Product, 0)
	for _, p := range f.sorted() {
		if query != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU), strings.ToLower(query)) {
			continue
		}
		if lowStockOnly && p.Stock > p.MinStock {
			continue
		}
		out = append(out, p)
	}
	return window(out, limit, offset), nil
}

func (f *Products) GetByID(_ context.Context, id string) (*entity.Product, error) {
	f.inc("GetByID")
	if p, ok := f.Rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, f.Err.get("GetByID")
}

func (f *Products) Create(_ context.Context, p *entity.Product) error {
	f.inc("Create")
	if err := f.Err.get("Create"); err != nil {
		return err
	}
	for _, other := range f.Rows {
		if other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	cp := *p
	f.Rows[p.ID] = &cp
	return nil
}

func (f *Products) Update(_ context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	f.inc("Update")
	if err := f.Err.get("Update"); err != nil {
		return nil, err
	}
	p, ok := f.Rows[id]
	if !ok {
		return nil, nil
	}
	set(&p.Name, patch.Name)
	set(&p.SKU, patch.SKU)
	set(&p.Category, patch.Category)
	set(&p.MinStock, patch.MinStock)
	set(&p.Price, patch.Price)
	set(&p.TaxRate, patch.TaxRate)
	set(&p.Supplier, patch.Supplier)
	set(&p.Description, patch.Description)
	cp := *p
	return &cp, nil
}

func (f *Products) Delete(_ context.Context, id string) error {
	f.inc("Delete")
	if err := f.Err.get("Delete"); err != nil {
		return err
	}
	if _, ok := f.Rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.Rows, id)
	return nil
}

func (f *Products) ListForPOS(_ context.Context, query string, limit, offset int) ([]entity.PosProduct, error) {
	f.inc("ListForPOS")
	if err := f.Err.get("ListForPOS"); err != nil {
		return nil, err
	}
	out := make([]entity.PosProduct, 0)
	for _, p := range f.sorted() {
		if p.Stock <= 0 || (query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query))) {
			continue
		}
		out = append(out, entity.PosProduct{ID: p.ID, Name: p.Name, Price: p.Price, TaxRate: p.TaxRate, Stock: p.Stock})
	}
	return window(out, limit, offset), nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// Stock repo de movimientos que opera sobre un Products compartido.
type Stock struct {
	Calls
	Err       Errors
	Products  *Products
	Movements []entity.StockMovement
}

var _ repository.StockRepository = (*Stock)(nil)

func (f *Stock) Move(_ context.Context, m repository.StockMove) (int, error) {
	f.inc("Move")
	if err := f.Err.get("Move"); err != nil {
		return 0, err
	}
	p, ok := f.Products.Rows[m.ProductID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.Stock+m.Delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += m.Delta
	f.Movements = append(f.Movements, entity.StockMovement{
		ID: uuid.NewString(), ProductID: m.ProductID, Delta: m.Delta, Reason: m.Reason,
		RefType: m.RefType, RefID: m.RefID, CreatedAt: time.Now(),
	})
	return p.Stock, nil
}

func (f *Stock) Set(ctx context.Context, productID string, newQty int, reason string) error {
	f.inc("Set")
	p, ok := f.Products.Rows[productID]
	if !ok {
		return domain.ErrNotFound
	}
	_, err := f.Move(ctx, repository.StockMove{ProductID: productID, Delta: newQty - p.Stock, Reason: reason})
	return err
}

func (f *Stock) ListMovements(_ context.Context, productID string, limit, offset int) ([]entity.StockMovement, error) {
	f.inc("ListMovements")
	out := make([]entity.StockMovement, 0)
	for i := len(f.Movements) - 1; i >= 0; i-- {
		if productID == "" || f.Movements[i].ProductID == productID {
			out = append(out, f.Movements[i])
		}
	}
	return window(out, limit, offset), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func window[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
