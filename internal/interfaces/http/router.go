package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eggpro-erp/internal/application/analytics"
	"github.com/jhoicas/eggpro-erp/internal/application/auth"
	"github.com/jhoicas/eggpro-erp/internal/application/billing"
	"github.com/jhoicas/eggpro-erp/internal/application/customers"
	"github.com/jhoicas/eggpro-erp/internal/application/inventory"
	"github.com/jhoicas/eggpro-erp/internal/application/payments"
	"github.com/jhoicas/eggpro-erp/internal/application/pos"
	"github.com/jhoicas/eggpro-erp/internal/application/sales"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC  *customers.CustomerUseCase
	ProductUC   *inventory.ProductUseCase
	StockUC     *inventory.StockUseCase
	CheckoutUC  *pos.CheckoutUseCase
	SalesUC     *sales.SalesUseCase
	PaymentUC   *payments.PaymentUseCase
	AnalyticsUC *analytics.AnalyticsUseCase
	InvoiceUC   *billing.InvoiceUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público). Se registra antes del grupo protegido para que el middleware no lo alcance.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Get("/users", adminOnly, authHandler.ListUsers)

	// Customers
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	customersGroup := protected.Group("/customers")
	customersGroup.Get("/", customerHandler.List)
	customersGroup.Post("/", customerHandler.Create)
	customersGroup.Get("/:id", customerHandler.GetByID)
	customersGroup.Patch("/:id", customerHandler.Update)
	customersGroup.Delete("/:id", adminOnly, customerHandler.Delete)
	customersGroup.Get("/:id/balance", paymentHandler.CustomerBalance)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Inventory
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/movements", inventoryHandler.Movements)
	invGroup.Post("/movements", inventoryHandler.Move)
	invGroup.Put("/products/:id/stock", inventoryHandler.Set)
	invGroup.Post("/products/:id/adjust", inventoryHandler.Adjust)

	// POS
	posHandler := NewPosHandler(deps.CheckoutUC)
	posGroup := protected.Group("/pos")
	posGroup.Get("/products", productHandler.PosProducts)
	posGroup.Get("/customers", customerHandler.PosCustomers)
	posGroup.Post("/quote", posHandler.Quote)
	posGroup.Post("/checkout", posHandler.Checkout)

	// Sales y pagos
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/metrics", saleHandler.Metrics)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Get("/:id/items", saleHandler.Items)
	salesGroup.Get("/:id/invoice.pdf", saleHandler.InvoicePDF)
	salesGroup.Get("/:id/receipt.pdf", saleHandler.ReceiptPDF)
	salesGroup.Get("/:id/payments", paymentHandler.List)
	salesGroup.Post("/:id/payments", paymentHandler.Add)
	salesGroup.Get("/:id/payment-summary", paymentHandler.Summary)
	protected.Get("/balances/outstanding", paymentHandler.Outstanding)

	// Analytics
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analyticsGroup := protected.Group("/analytics")
	analyticsGroup.Get("/dashboard", analyticsHandler.Dashboard)
	analyticsGroup.Get("/customers", analyticsHandler.Customers)
	analyticsGroup.Get("/inventory", analyticsHandler.Inventory)
	analyticsGroup.Get("/sales", analyticsHandler.Sales)
	analyticsGroup.Get("/financial", analyticsHandler.Financial)
	analyticsGroup.Get("/top-products", analyticsHandler.TopProducts)
	analyticsGroup.Get("/segments", analyticsHandler.Segments)
	analyticsGroup.Post("/actions/bulk-update-low-stock", adminOnly, analyticsHandler.BulkUpdateLowStock)
	analyticsGroup.Post("/actions/mark-all-balances-paid", adminOnly, analyticsHandler.MarkAllBalancesPaid)

	// Invoices
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/xml", invoiceHandler.XML)
}
