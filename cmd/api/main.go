package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/eggpro-erp/docs"
	"github.com/jhoicas/eggpro-erp/internal/application/analytics"
	"github.com/jhoicas/eggpro-erp/internal/application/auth"
	"github.com/jhoicas/eggpro-erp/internal/application/billing"
	"github.com/jhoicas/eggpro-erp/internal/application/customers"
	"github.com/jhoicas/eggpro-erp/internal/application/inventory"
	"github.com/jhoicas/eggpro-erp/internal/application/payments"
	"github.com/jhoicas/eggpro-erp/internal/application/pos"
	"github.com/jhoicas/eggpro-erp/internal/application/sales"
	infrapdf "github.com/jhoicas/eggpro-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/eggpro-erp/internal/interfaces/http"
	"github.com/jhoicas/eggpro-erp/pkg/config"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
	"github.com/jhoicas/eggpro-erp/pkg/money"
)

// @title                       EggPro ERP API
// @version                     1.0
// @description                 API del ERP EggPro: clientes, inventario, punto de venta, ventas, pagos, analítica y facturación.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("currency", cfg.App.Currency).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.DefaultPoolOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	fmtMoney, err := money.New(cfg.App.Currency)
	if err != nil {
		log.Fatal().Err(err).Str("currency", cfg.App.Currency).Msg("moneda inválida")
	}
	loc := cfg.App.Location()
	stale := cfg.Cache.StaleTime

	customerRepo := postgres.NewCustomerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de consultas compartida por todos los casos de uso (una por proceso).
	cache := querycache.New()

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Store, fmtMoney, loc)
	xmlExporter := ubl.NewExporter(cfg.Store, cfg.App.Currency)

	customerUC := customers.NewCustomerUseCase(customerRepo, cache, stale, log)
	productUC := inventory.NewProductUseCase(productRepo, cache, stale, log)
	stockUC := inventory.NewStockUseCase(stockRepo, cache, stale, log)
	checkoutUC := pos.NewCheckoutUseCase(saleRepo, productUC, cache, log)
	salesUC := sales.NewSalesUseCase(saleRepo, paymentRepo, pdfGenerator, cache, stale, loc)
	paymentUC := payments.NewPaymentUseCase(paymentRepo, cache, stale, log)
	analyticsUC := analytics.NewAnalyticsUseCase(analyticsRepo, cache, stale, loc, log)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, pdfGenerator, xmlExporter, cache, stale, loc, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	// Refresco periódico del panel de analítica.
	refresher := querycache.NewRefresher(cache, cfg.Cache.AnalyticsRefresh, log)
	analyticsUC.RegisterRefresh(refresher)
	refresherDone := make(chan struct{})
	go func() {
		defer close(refresherDone)
		refresher.Run(ctx)
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "EggPro ERP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC:  customerUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		CheckoutUC:  checkoutUC,
		SalesUC:     salesUC,
		PaymentUC:   paymentUC,
		AnalyticsUC: analyticsUC,
		InvoiceUC:   invoiceUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()
	<-refresherDone

	log.Info().Msg("aplicación detenida")
}
