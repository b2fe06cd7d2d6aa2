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
	appdelivery "github.com/tu-usuario/tienda-social-api/internal/application/delivery"
	"github.com/tu-usuario/tienda-social-api/internal/application/events"
	"github.com/tu-usuario/tienda-social-api/internal/application/inventory"
	"github.com/tu-usuario/tienda-social-api/internal/application/kit"
	"github.com/tu-usuario/tienda-social-api/internal/application/usecase"
	"github.com/tu-usuario/tienda-social-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/tienda-social-api/internal/interfaces/http"
	"github.com/tu-usuario/tienda-social-api/pkg/config"
	"github.com/tu-usuario/tienda-social-api/pkg/logger"
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

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	kitRepo := postgres.NewKitRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Bus de cambios post-commit; por ahora el único suscriptor deja traza.
	bus := events.NewBus()
	bus.Subscribe(func(e events.Event) {
		log.Info().
			Str("event", e.Type).
			Str("entity_id", e.EntityID).
			Time("at", e.At).
			Msg("cambio confirmado")
	})

	recordMovementUC := inventory.NewRecordMovementUseCase(txRunner, productRepo, movementRepo, bus)
	productUC := usecase.NewProductUseCase(productRepo, recordMovementUC)
	kitUC := kit.NewKitUseCase(kitRepo, productRepo)
	deliveryUC := appdelivery.NewDeliveryUseCase(txRunner, deliveryRepo, kitRepo, recordMovementUC, bus)

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
		Title:    "Tienda Social API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		KitUC:          kitUC,
		RecordMovement: recordMovementUC,
		DeliveryUC:     deliveryUC,
		JWTSecret:      cfg.JWT.Secret,
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
