package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/payments"
)

// PaymentHandler abonos y saldos (protegido).
type PaymentHandler struct {
	uc *payments.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Add godoc
// @Summary      Registrar abono a una venta
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la venta"
// @Param        body  body  dto.CreatePaymentRequest  true  "Importe, método y notas"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments [post]
func (h *PaymentHandler) Add(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddPayment(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Abonos de una venta
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}   dto.PaymentResponse
// @Router       /api/sales/{id}/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.SalePayments(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Total, pagado y saldo de una venta
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  entity.SalePaymentSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payment-summary [get]
func (h *PaymentHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.SaleSummary(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CustomerBalance godoc
// @Summary      Saldo de un cliente
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/balance [get]
func (h *PaymentHandler) CustomerBalance(c *fiber.Ctx) error {
	out, err := h.uc.CustomerBalance(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Outstanding godoc
// @Summary      Clientes con saldo pendiente
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CustomerBalanceResponse
// @Router       /api/balances/outstanding [get]
func (h *PaymentHandler) Outstanding(c *fiber.Ctx) error {
	out, err := h.uc.OutstandingBalances(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
