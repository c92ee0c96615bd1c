package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrReferenced            = errors.New("el registro está referenciado por ventas o movimientos de stock")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrEmptyCart             = errors.New("el carrito está vacío")
	ErrPaymentExceedsBalance = errors.New("el pago excede el saldo pendiente")
)
