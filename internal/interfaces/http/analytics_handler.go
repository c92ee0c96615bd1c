package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eggpro-erp/internal/application/analytics"
	"github.com/jhoicas/eggpro-erp/internal/application/dto"
)

// AnalyticsHandler panel de analítica y acciones rápidas.
type AnalyticsHandler struct {
	uc *analytics.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Analíticas del panel principal
// @Description  Clientes, inventario, ventas (30 días) y finanzas consultadas en paralelo.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Customers godoc
// @Summary      Analítica de clientes
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.CustomerAnalytics
// @Router       /api/analytics/customers [get]
func (h *AnalyticsHandler) Customers(c *fiber.Ctx) error {
	out, err := h.uc.Customers(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Analítica de inventario
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.InventoryAnalytics
// @Router       /api/analytics/inventory [get]
func (h *AnalyticsHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.Inventory(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Sales godoc
// @Summary      Analítica de ventas
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(30)
// @Success      200   {object}  entity.SalesAnalytics
// @Router       /api/analytics/sales [get]
func (h *AnalyticsHandler) Sales(c *fiber.Ctx) error {
	out, err := h.uc.Sales(c.Context(), c.QueryInt("days", 30))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Financial godoc
// @Summary      Analítica financiera
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.FinancialAnalytics
// @Router       /api/analytics/financial [get]
func (h *AnalyticsHandler) Financial(c *fiber.Ctx) error {
	out, err := h.uc.Financial(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad"  default(5)
// @Success      200    {array}  entity.TopProduct
// @Router       /api/analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopProducts(c.Context(), c.QueryInt("limit", 5))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Segments godoc
// @Summary      Segmentos de clientes
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.CustomerSegment
// @Router       /api/analytics/segments [get]
func (h *AnalyticsHandler) Segments(c *fiber.Ctx) error {
	out, err := h.uc.CustomerSegments(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkUpdateLowStock godoc
// @Summary      Acción rápida: reponer productos con stock bajo (admin)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/actions/bulk-update-low-stock [post]
func (h *AnalyticsHandler) BulkUpdateLowStock(c *fiber.Ctx) error {
	if err := h.uc.BulkUpdateLowStock(c.Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "stock bajo actualizado"})
}

// MarkAllBalancesPaid godoc
// @Summary      Acción rápida: marcar todos los saldos como pagados (admin)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/actions/mark-all-balances-paid [post]
func (h *AnalyticsHandler) MarkAllBalancesPaid(c *fiber.Ctx) error {
	if err := h.uc.MarkAllBalancesPaid(c.Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "saldos marcados como pagados"})
}
