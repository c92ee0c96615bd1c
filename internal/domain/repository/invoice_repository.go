package repository

import (
	"context"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// InvoiceFilter filtros del listado. Status se aplica en el caso de uso porque Overdue es derivado.
type InvoiceFilter struct {
	Search string
	Limit  int
	Offset int
}

// InvoiceRepository puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	// Create inserta la cabecera; completa ID, Number y CreatedAt.
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	Items(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error)
	List(ctx context.Context, f InvoiceFilter) ([]entity.Invoice, error)
}
