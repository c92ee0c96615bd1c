package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos (tabla payments) y saldos (get_*_balance*).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create registra el pago con la fecha indicada.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	const sql = `
		INSERT INTO payments (sale_id, customer_id, amount_paid, payment_method, notes, payment_date)
		VALUES ($1, $2::uuid, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, sql, p.SaleID, nullIfEmpty(p.CustomerID), p.AmountPaid, p.PaymentMethod,
		nullIfEmpty(p.Notes), p.PaymentDate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return mapWriteError("insert payment", err)
	}
	return nil
}

// ListBySale pagos de la venta, más recientes primero.
func (r *PaymentRepo) ListBySale(ctx context.Context, saleID string) ([]entity.Payment, error) {
	const sql = `
		SELECT id, sale_id, COALESCE(customer_id::text, ''), amount_paid, payment_method,
		       payment_date, COALESCE(notes, ''), created_at
		FROM payments
		WHERE sale_id = $1
		ORDER BY payment_date DESC`
	rows, err := r.q.Query(ctx, sql, saleID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Payment, 0)
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.CustomerID, &p.AmountPaid, &p.PaymentMethod,
			&p.PaymentDate, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SaleSummary primera fila de get_sale_payment_summary.
func (r *PaymentRepo) SaleSummary(ctx context.Context, saleID string) (*entity.SalePaymentSummary, error) {
	const sql = `
		SELECT sale_id, COALESCE(total_amount, 0), COALESCE(total_paid, 0), COALESCE(balance_due, 0),
		       COALESCE(payment_status, 'Pending'), COALESCE(customer_name, ''), sale_date
		FROM get_sale_payment_summary(p_sale_id => $1)
		LIMIT 1`
	var s entity.SalePaymentSummary
	err := r.q.QueryRow(ctx, sql, saleID).Scan(&s.SaleID, &s.TotalAmount, &s.TotalPaid, &s.BalanceDue,
		&s.PaymentStatus, &s.CustomerName, &s.SaleDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get_sale_payment_summary: %w", err)
	}
	return &s, nil
}

const balanceColumns = `customer_id, COALESCE(customer_name, ''), COALESCE(total_outstanding, 0),
	COALESCE(overdue_amount, 0), COALESCE(total_sales, 0), COALESCE(pending_sales::jsonb, '[]'::jsonb)`

func scanBalance(row pgx.Row) (entity.CustomerBalance, error) {
	var (
		b       entity.CustomerBalance
		pending []byte
	)
	if err := row.Scan(&b.CustomerID, &b.CustomerName, &b.TotalOutstanding, &b.OverdueAmount,
		&b.TotalSales, &pending); err != nil {
		return b, err
	}
	if err := json.Unmarshal(pending, &b.PendingSales); err != nil {
		return b, fmt.Errorf("decode pending_sales: %w", err)
	}
	if b.PendingSales == nil {
		b.PendingSales = []entity.SalePaymentSummary{}
	}
	return b, nil
}

// CustomerBalance primera fila de get_customer_balance.
func (r *PaymentRepo) CustomerBalance(ctx context.Context, customerID string) (*entity.CustomerBalance, error) {
	sql := `SELECT ` + balanceColumns + ` FROM get_customer_balance(p_customer_id => $1) LIMIT 1`
	b, err := scanBalance(r.q.QueryRow(ctx, sql, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get_customer_balance: %w", err)
	}
	return &b, nil
}

// OutstandingBalances saldos de todos los clientes con deuda.
func (r *PaymentRepo) OutstandingBalances(ctx context.Context) ([]entity.CustomerBalance, error) {
	rows, err := r.q.Query(ctx, `SELECT `+balanceColumns+` FROM get_all_outstanding_balances()`)
	if err != nil {
		return nil, fmt.Errorf("get_all_outstanding_balances: %w", err)
	}
	defer rows.Close()

	list := make([]entity.CustomerBalance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
