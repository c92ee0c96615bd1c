package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/eggpro-erp/internal/application/billing"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInvoice abre una transacción con los repos de facturación; Commit si fn no falla.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewInvoiceRepository(tx), NewCustomerRepository(tx))
	})
}

// txBeginner lo cumple *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx hace Rollback siempre al salir, también si fn entra en pánico; tras un Commit
// correcto Rollback devuelve pgx.ErrTxClosed y se ignora.
func withTx(ctx context.Context, db txBeginner, fn func(tx pgx.Tx) error) (txErr error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		rbErr := tx.Rollback(ctx)
		if txErr != nil && rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			txErr = errors.Join(txErr, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
