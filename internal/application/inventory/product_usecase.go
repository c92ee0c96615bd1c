package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/inventory"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

const (
	defaultLimit = 100
	maxLimit     = 500
	posLimit     = 200
)

var maxTaxRate = decimal.NewFromInt(100)

// ProductUseCase casos de uso CRUD de productos. El stock sólo cambia vía StockUseCase.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache *querycache.Cache
	stale time.Duration
	log   *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, cache *querycache.Cache, stale time.Duration, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache, stale: stale, log: log.Component("products")}
}

// List busca productos (products_search) y calcula valor total y cantidad en alerta de la página.
func (uc *ProductUseCase) List(ctx context.Context, search string, limit, offset int, lowStockOnly bool) (*dto.ProductListResponse, error) {
	page := dto.Page(limit, offset, defaultLimit, maxLimit)
	search = strings.TrimSpace(search)
	key := querykeys.With(querykeys.Products, search, page.Limit, page.Offset, lowStockOnly)
	list, err := querycache.Get(ctx, uc.cache, key, uc.stale, func(ctx context.Context) ([]entity.Product, error) {
		return uc.repo.Search(ctx, search, page.Limit, page.Offset, lowStockOnly)
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items:           make([]dto.ProductResponse, 0, len(list)),
		Page:            page,
		TotalStockValue: inventory.TotalStockValue(list),
		LowStockCount:   inventory.LowStockCount(list),
	}
	for i := range list {
		out.Items = append(out.Items, toProductResponse(&list[i]))
	}
	return out, nil
}

// GetByID devuelve el producto o nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	if !dto.ValidID(id) {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	out := toProductResponse(p)
	return &out, nil
}

// Create da de alta un producto. name y sku obligatorios; precio e impuesto 0 por defecto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.TrimSpace(in.SKU),
		Category:    strings.TrimSpace(in.Category),
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Price:       decimal.Zero,
		TaxRate:     decimal.Zero,
		Supplier:    in.Supplier,
		Description: in.Description,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.TaxRate != nil {
		p.TaxRate = *in.TaxRate
	}
	if p.Name == "" || p.SKU == "" || p.Stock < 0 || p.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validateMoney(&p.Price, &p.TaxRate); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(querykeys.Products, querykeys.PosProducts, querykeys.InventoryAnalytics)
	uc.log.Info().Str("product_id", p.ID).Str("sku", p.SKU).Msg("producto creado")
	out := toProductResponse(p)
	return &out, nil
}

// Update aplica los campos presentes. Un stock en la entrada se descarta.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !dto.ValidID(id) {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock != nil {
		uc.log.Debug().Str("product_id", id).Msg("stock ignorado en la edición de producto")
	}
	patch := entity.ProductPatch{
		Name: in.Name, SKU: in.SKU, Category: in.Category, MinStock: in.MinStock,
		Price: in.Price, TaxRate: in.TaxRate, Supplier: in.Supplier, Description: in.Description,
	}
	if (patch.Name != nil && strings.TrimSpace(*patch.Name) == "") ||
		(patch.SKU != nil && strings.TrimSpace(*patch.SKU) == "") ||
		(patch.MinStock != nil && *patch.MinStock < 0) {
		return nil, domain.ErrInvalidInput
	}
	if err := validateMoney(patch.Price, patch.TaxRate); err != nil {
		return nil, err
	}
	p, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	uc.cache.Invalidate(querykeys.Products, querykeys.PosProducts, querykeys.InventoryAnalytics)
	out := toProductResponse(p)
	return &out, nil
}

// Delete quita el producto de los listados cacheados antes de llamar al backend y
// restaura esos listados si la baja falla (p. ej. producto referenciado por ventas).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if !dto.ValidID(id) {
		return domain.ErrInvalidInput
	}
	rollback := uc.cache.Optimistic(isProductList, func(_ querycache.Key, v any) any {
		list, ok := v.([]entity.Product)
		if !ok {
			return v
		}
		out := make([]entity.Product, 0, len(list))
		for _, p := range list {
			if p.ID != id {
				out = append(out, p)
			}
		}
		return out
	})
	if err := uc.repo.Delete(ctx, id); err != nil {
		rollback()
		uc.log.Warn().Err(err).Str("product_id", id).Msg("baja de producto revertida")
		return err
	}
	uc.cache.Invalidate(querykeys.Products, querykeys.PosProducts, querykeys.InventoryAnalytics)
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// PosProducts productos con stock para el POS (pos_products), vigencia corta.
func (uc *ProductUseCase) PosProducts(ctx context.Context, search string) ([]dto.PosProductResponse, error) {
	search = strings.TrimSpace(search)
	list, err := uc.posSnapshot(ctx, search)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PosProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PosProductResponse{ID: p.ID, Name: p.Name, Price: p.Price, TaxRate: p.TaxRate, Stock: p.Stock})
	}
	return out, nil
}

// PosSnapshot foto cacheada de pos_products; la usa el presupuesto del POS.
func (uc *ProductUseCase) PosSnapshot(ctx context.Context) ([]entity.PosProduct, error) {
	return uc.posSnapshot(ctx, "")
}

func (uc *ProductUseCase) posSnapshot(ctx context.Context, search string) ([]entity.PosProduct, error) {
	key := querykeys.With(querykeys.PosProducts, search)
	return querycache.Get(ctx, uc.cache, key, querykeys.POSStale, func(ctx context.Context) ([]entity.PosProduct, error) {
		return uc.repo.ListForPOS(ctx, search, posLimit, 0)
	})
}

func isProductList(k querycache.Key) bool { return k.HasPrefix(querykeys.Products) }

func validateMoney(price, taxRate *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return domain.ErrInvalidInput
	}
	if taxRate != nil && (taxRate.IsNegative() || taxRate.GreaterThan(maxTaxRate)) {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		StockStatus: string(inventory.Status(p.Stock, p.MinStock)),
		Price:       p.Price,
		TaxRate:     p.TaxRate,
		Supplier:    p.Supplier,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
