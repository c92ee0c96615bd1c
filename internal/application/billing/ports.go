package billing

import (
	"context"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de facturación.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación impresa de una factura (con líneas).
type InvoicePDFGenerator interface {
	InvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}

// InvoiceXMLExporter serializa una factura (con líneas) a XML con digest canónico.
type InvoiceXMLExporter interface {
	InvoiceXML(invoice *entity.Invoice) ([]byte, error)
}
