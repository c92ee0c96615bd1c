package repository

import (
	"context"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
type ProductRepository interface {
	// Search delega en products_search.
	Search(ctx context.Context, query string, limit, offset int, lowStockOnly bool) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	// Update nunca toca stock; devuelve nil si el producto no existe.
	Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	// ListForPOS delega en pos_products (sólo productos con stock > 0).
	ListForPOS(ctx context.Context, query string, limit, offset int) ([]entity.PosProduct, error)
}
