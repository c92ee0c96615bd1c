package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/pos"
)

// PosHandler cotización y cobro del punto de venta (protegido).
type PosHandler struct {
	uc *pos.CheckoutUseCase
}

// NewPosHandler construye el handler.
func NewPosHandler(uc *pos.CheckoutUseCase) *PosHandler {
	return &PosHandler{uc: uc}
}

// Quote godoc
// @Summary      Totales estimados del carrito
// @Description  Usa los precios e impuestos vigentes; las cantidades se recortan al stock disponible.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "Líneas del carrito"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pos/quote [post]
func (h *PosHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Quote(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Cobrar venta
// @Description  Sólo se envían producto y cantidad; precio, impuesto y descuento de stock los calcula el backend.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Cliente (opcional), líneas, abono parcial y nota"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/checkout [post]
func (h *PosHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Checkout(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
