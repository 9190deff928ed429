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

	"github.com/tu-usuario/kardex-erp/internal/application/inventory"
	"github.com/tu-usuario/kardex-erp/internal/application/kardex"
	"github.com/tu-usuario/kardex-erp/internal/application/notify"
	"github.com/tu-usuario/kardex-erp/internal/application/orders"
	"github.com/tu-usuario/kardex-erp/internal/application/purchases"
	"github.com/tu-usuario/kardex-erp/internal/application/reversal"
	"github.com/tu-usuario/kardex-erp/internal/application/sales"
	"github.com/tu-usuario/kardex-erp/internal/infrastructure/postgres"
	infraredis "github.com/tu-usuario/kardex-erp/internal/infrastructure/redis"
	httpRouter "github.com/tu-usuario/kardex-erp/internal/interfaces/http"
	"github.com/tu-usuario/kardex-erp/pkg/config"
	"github.com/tu-usuario/kardex-erp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Notificaciones best-effort: si Redis no responde al arranque la API
	// sigue funcionando sin publicar eventos.
	var notifier notify.Notifier = notify.NopNotifier{}
	if redisClient, err := infraredis.NewClient(cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("Redis no disponible, notificaciones deshabilitadas")
	} else {
		defer redisClient.Close()
		notifier = infraredis.NewNotifier(redisClient, cfg.Redis.ChannelPrefix)
	}

	productRepo := postgres.NewProductRepository(pool)
	kardexRepo := postgres.NewKardexRepository(pool)
	movementTypeRepo := postgres.NewMovementTypeRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	kardexSvc := kardex.NewService(txRunner, kardexRepo, productRepo, movementTypeRepo, warehouseRepo, notifier, log)
	orderSvc := orders.NewService(txRunner, orderRepo, productRepo, customerRepo, warehouseRepo, saleRepo, notifier, log, cfg.Sales.TaxRate)
	purchaseSvc := purchases.NewService(txRunner, purchaseRepo, supplierRepo, warehouseRepo, notifier, log)
	saleSvc := sales.NewService(saleRepo)
	reversalSvc := reversal.NewService(txRunner, notifier, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex ERP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		KardexSvc:     kardexSvc,
		OrderSvc:      orderSvc,
		PurchaseSvc:   purchaseSvc,
		SaleSvc:       saleSvc,
		ReversalSvc:   reversalSvc,
		Replenishment: replenishmentUC,
		JWTSecret:     cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
