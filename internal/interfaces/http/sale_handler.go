package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eggpro-erp/internal/application/sales"
)

// SaleHandler consulta de ventas y sus documentos (protegido).
type SaleHandler struct {
	uc *sales.SalesUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SalesUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// List godoc
// @Summary      Buscar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        q          query  string  false  "Cliente o id de venta"
// @Param        date_from  query  string  false  "Desde (YYYY-MM-DD, inclusive)"
// @Param        date_to    query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        limit      query  int     false  "Límite"  default(100)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.SaleListResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("q"), c.Query("date_from"), c.Query("date_to"),
		c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Metrics godoc
// @Summary      Métricas de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(7)
// @Success      200   {object}  dto.SalesMetricsResponse
// @Router       /api/sales/metrics [get]
func (h *SaleHandler) Metrics(c *fiber.Ctx) error {
	out, err := h.uc.Metrics(c.Context(), c.QueryInt("days", 7))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "venta")
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Líneas de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {array}   dto.SaleItemResponse
// @Router       /api/sales/{id}/items [get]
func (h *SaleHandler) Items(c *fiber.Ctx) error {
	out, err := h.uc.Items(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// InvoicePDF godoc
// @Summary      Factura A4 de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/invoice.pdf [get]
func (h *SaleHandler) InvoicePDF(c *fiber.Ctx) error {
	body, name, err := h.uc.InvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, body)
}

// ReceiptPDF godoc
// @Summary      Recibo de 80 mm de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt.pdf [get]
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	body, name, err := h.uc.ReceiptPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", name, body)
}
