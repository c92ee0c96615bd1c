package repository

import (
	"context"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	// Search delega en customers_search; query vacío lista todo. Incluye total_orders y total_spent.
	Search(ctx context.Context, query string, limit, offset int) ([]entity.Customer, error)
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// Create inserta y completa ID y CreatedAt con lo devuelto por la base.
	Create(ctx context.Context, customer *entity.Customer) error
	// Update aplica sólo los campos no nil y devuelve la fila resultante (nil si no existe).
	Update(ctx context.Context, id string, patch entity.CustomerPatch) (*entity.Customer, error)
	Delete(ctx context.Context, id string) error
	// ListForPOS id y nombre ordenados por nombre, filtrando con ILIKE %search%.
	ListForPOS(ctx context.Context, search string, limit int) ([]entity.PosCustomer, error)
}
