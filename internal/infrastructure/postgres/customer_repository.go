package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), type,
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip_code, ''),
	COALESCE(notes, ''), status, created_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row, c *entity.Customer, extra ...any) error {
	dest := []any{&c.ID, &c.Name, &c.Email, &c.Phone, &c.Type, &c.Address, &c.City, &c.State,
		&c.ZipCode, &c.Notes, &c.Status, &c.CreatedAt}
	return row.Scan(append(dest, extra...)...)
}

// Search lista clientes vía customers_search con total de órdenes y monto gastado.
func (r *CustomerRepo) Search(ctx context.Context, query string, limit, offset int) ([]entity.Customer, error) {
	sql := `SELECT ` + customerColumns + `, COALESCE(total_orders, 0), COALESCE(total_spent, 0)
		FROM customers_search(p_query => $1, p_limit => $2, p_offset => $3)`
	rows, err := r.q.Query(ctx, sql, nullIfEmpty(query), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("customers_search: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Customer, 0)
	for rows.Next() {
		var c entity.Customer
		if err := scanCustomer(rows, &c, &c.TotalOrders, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetByID obtiene un cliente por ID; nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const sql = `
		INSERT INTO customers (name, email, phone, type, address, city, state, zip_code, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, sql,
		c.Name, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), c.Type, nullIfEmpty(c.Address),
		nullIfEmpty(c.City), nullIfEmpty(c.State), nullIfEmpty(c.ZipCode), nullIfEmpty(c.Notes), c.Status,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return mapWriteError("insert customer", err)
	}
	return nil
}

// Update aplica el patch; los textos vacíos se guardan como NULL.
func (r *CustomerRepo) Update(ctx context.Context, id string, p entity.CustomerPatch) (*entity.Customer, error) {
	var set setClause
	optional := func(col string, v *string) {
		if v != nil {
			set.add(col, nullIfEmpty(*v))
		}
	}
	if p.Name != nil {
		set.add("name", *p.Name)
	}
	if p.Type != nil {
		set.add("type", *p.Type)
	}
	if p.Status != nil {
		set.add("status", *p.Status)
	}
	optional("email", p.Email)
	optional("phone", p.Phone)
	optional("address", p.Address)
	optional("city", p.City)
	optional("state", p.State)
	optional("zip_code", p.ZipCode)
	optional("notes", p.Notes)

	if set.empty() {
		return r.GetByID(ctx, id)
	}
	cols, args, idx := set.sql(id)
	sql := fmt.Sprintf(`UPDATE customers SET %s WHERE id = $%d RETURNING %s`, cols, idx, customerColumns)

	var c entity.Customer
	if err := scanCustomer(r.q.QueryRow(ctx, sql, args...), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapWriteError("update customer", err)
	}
	return &c, nil
}

// Delete elimina un cliente. ErrNotFound si no existía, ErrReferenced si tiene ventas.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError("delete customer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListForPOS id y nombre para el selector del punto de venta.
func (r *CustomerRepo) ListForPOS(ctx context.Context, search string, limit int) ([]entity.PosCustomer, error) {
	const sql = `
		SELECT id, name FROM customers
		WHERE $1::text IS NULL OR name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2`
	rows, err := r.q.Query(ctx, sql, nullIfEmpty(search), limit)
	if err != nil {
		return nil, fmt.Errorf("list pos customers: %w", err)
	}
	defer rows.Close()

	list := make([]entity.PosCustomer, 0)
	for rows.Next() {
		var c entity.PosCustomer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan pos customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
