package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/eggpro-erp/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeRaiseException      = "P0001"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message
	}
	return "", ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

// isForeignKeyViolation la fila está referenciada (al borrar) o la referencia no existe (al insertar).
func isForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeForeignKeyViolation
}

// isInsufficientStock reconoce el RAISE de los procedimientos de stock y el CHECK (stock >= 0).
func isInsufficientStock(err error) bool {
	code, msg := pgCode(err)
	msg = strings.ToLower(msg)
	switch code {
	case codeRaiseException:
		return strings.Contains(msg, "insufficient stock") || strings.Contains(msg, "stock insuficiente")
	case codeCheckViolation:
		return strings.Contains(msg, "stock")
	}
	return false
}

// raisedMessage mensaje de un RAISE EXCEPTION del backend, vacío si el error no lo es.
func raisedMessage(err error) string {
	code, msg := pgCode(err)
	if code == codeRaiseException {
		return msg
	}
	return ""
}

// mapDeleteError como mapWriteError, pero una FK violada al borrar significa que otras filas
// (ventas, movimientos, pagos) todavía referencian el registro.
func mapDeleteError(op string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrReferenced)
	}
	return mapWriteError(op, err)
}

// mapWriteError traduce errores de escritura a errores de dominio; si no aplica, envuelve con op.
// En altas y cambios una FK violada es una referencia inexistente (cliente o producto desconocido).
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w: referencia inexistente", op, domain.ErrInvalidInput)
	case isInsufficientStock(err):
		return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	}
	if msg := raisedMessage(err); msg != "" {
		return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

// setClause arma el SET de un UPDATE parcial con parámetros posicionales.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, val any) {
	s.args = append(s.args, val)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *setClause) empty() bool { return len(s.cols) == 0 }

// sql devuelve "col1 = $1, col2 = $2" y agrega id como último parámetro, cuyo índice devuelve.
func (s *setClause) sql(id any) (string, []any, int) {
	args := append(s.args, id)
	return strings.Join(s.cols, ", "), args, len(args)
}
