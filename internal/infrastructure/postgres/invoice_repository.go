package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `i.id, i.number, COALESCE(i.customer_id::text, ''), COALESCE(c.name, ''),
	i.issued_at, i.due_date, i.terms, COALESCE(i.notes, ''), i.status,
	i.subtotal, i.tax_total, i.total, i.paid_amount, i.paid_at, i.created_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func scanInvoice(row pgx.Row, inv *entity.Invoice) error {
	return row.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.CustomerName, &inv.InvoiceDate, &inv.DueDate,
		&inv.Terms, &inv.Notes, &inv.Status, &inv.Subtotal, &inv.TaxTotal, &inv.Total, &inv.PaidAmount,
		&inv.PaidAt, &inv.CreatedAt)
}

// Create persiste la cabecera; el número lo asigna la secuencia de la tabla.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const sql = `
		INSERT INTO invoices (customer_id, issued_at, due_date, terms, notes, status, subtotal, tax_total, total, paid_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, number, created_at`
	err := r.q.QueryRow(ctx, sql,
		inv.CustomerID, inv.InvoiceDate, inv.DueDate, inv.Terms, nullIfEmpty(inv.Notes), inv.Status,
		inv.Subtotal, inv.TaxTotal, inv.Total, inv.PaidAmount,
	).Scan(&inv.ID, &inv.Number, &inv.CreatedAt)
	if err != nil {
		return mapWriteError("insert invoice", err)
	}
	return nil
}

// CreateItem persiste una línea.
func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	const sql = `
		INSERT INTO invoice_items (invoice_id, name, quantity, price, tax_rate, subtotal, tax_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, sql, it.InvoiceID, it.Name, it.Quantity, it.Price, it.TaxRate, it.Subtotal, it.TaxAmount).
		Scan(&it.ID)
	if err != nil {
		return mapWriteError("insert invoice item", err)
	}
	return nil
}

// GetByID factura sin líneas; nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	sql := `SELECT ` + invoiceColumns + ` FROM invoices i LEFT JOIN customers c ON c.id = i.customer_id WHERE i.id = $1`
	var inv entity.Invoice
	if err := scanInvoice(r.q.QueryRow(ctx, sql, id), &inv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// Items líneas de la factura en orden de alta.
func (r *InvoiceRepo) Items(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	const sql = `
		SELECT id, invoice_id, name, quantity, price, tax_rate, subtotal, tax_amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position, id`
	rows, err := r.q.Query(ctx, sql, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	list := make([]entity.InvoiceItem, 0)
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Name, &it.Quantity, &it.Price, &it.TaxRate, &it.Subtotal, &it.TaxAmount); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// List facturas más recientes primero, filtrando por cliente o número.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]entity.Invoice, error) {
	sql := `SELECT ` + invoiceColumns + `
		FROM invoices i LEFT JOIN customers c ON c.id = i.customer_id
		WHERE $1::text IS NULL
		   OR c.name ILIKE '%' || $1 || '%'
		   OR ('INV-' || lpad(i.number::text, 5, '0')) ILIKE '%' || $1 || '%'
		ORDER BY i.issued_at DESC, i.number DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, sql, nullIfEmpty(f.Search), f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Invoice, 0)
	for rows.Next() {
		var inv entity.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
