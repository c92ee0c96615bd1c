package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eggpro-erp/internal/domain"
)

func TestMapWriteError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicate},
		{"fk en alta", &pgconn.PgError{Code: "23503"}, domain.ErrInvalidInput},
		{"raise stock", &pgconn.PgError{Code: "P0001", Message: "Insufficient stock for product X"}, domain.ErrInsufficientStock},
		{"check stock", &pgconn.PgError{Code: "23514", Message: `new row violates check constraint "products_stock_check"`}, domain.ErrInsufficientStock},
		{"raise otro", &pgconn.PgError{Code: "P0001", Message: "sale is closed"}, domain.ErrConflict},
		{"envuelto", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapWriteError("op", tc.err), tc.want)
		})
	}

	plain := errors.New("conn reset")
	got := mapWriteError("insert sale", plain)
	assert.ErrorIs(t, got, plain)
	assert.EqualError(t, got, "insert sale: conn reset")
}

func TestMapDeleteError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "sales_customer_id_fkey"}
	assert.ErrorIs(t, mapDeleteError("delete customer", fk), domain.ErrReferenced)
	assert.NotErrorIs(t, mapWriteError("pos_checkout", fk), domain.ErrReferenced,
		"un cliente desconocido en el cobro no es un registro referenciado")

	assert.ErrorIs(t, mapDeleteError("delete product", &pgconn.PgError{Code: "23505"}), domain.ErrDuplicate)
	plain := errors.New("conn reset")
	assert.ErrorIs(t, mapDeleteError("delete product", plain), plain)
}

func TestSetClause(t *testing.T) {
	var s setClause
	assert.True(t, s.empty())
	s.add("name", "Eggs")
	s.add("price", 10)

	sql, args, idx := s.sql("id-1")
	assert.Equal(t, "name = $1, price = $2", sql)
	assert.Equal(t, []any{"Eggs", 10, "id-1"}, args)
	assert.Equal(t, 3, idx)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/eggpro?sslmode=disable", MigrateURL("postgres://u:p@db:5432/eggpro?sslmode=disable"))
	assert.Equal(t, "pgx5://u:p@db/eggpro", MigrateURL("postgresql://u:p@db/eggpro"))
	assert.Equal(t, "pgx5://ya/listo", MigrateURL("pgx5://ya/listo"))
}
