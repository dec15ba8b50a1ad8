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
	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
	"github.com/jhoicas/TalentoHR-api/internal/application/reconcile"
	"github.com/jhoicas/TalentoHR-api/internal/application/tenancy"
	"github.com/jhoicas/TalentoHR-api/internal/infrastructure/events"
	"github.com/jhoicas/TalentoHR-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/TalentoHR-api/internal/interfaces/http"
	"github.com/jhoicas/TalentoHR-api/pkg/config"
	"github.com/jhoicas/TalentoHR-api/pkg/logger"
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
	registryPool, err := postgres.NewRegistryPool(ctx, cfg.Registry.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base del registro")
	}
	defer registryPool.Close()

	if err := postgres.EnsureRegistrySchema(ctx, registryPool); err != nil {
		log.Fatal().Err(err).Msg("esquema del registro")
	}

	registryRepo := postgres.NewRegistryRepository(registryPool)
	provisioner := postgres.NewStoreProvisioner(registryPool, cfg.TenantDB.DSN, log)
	registryUC := tenancy.NewRegistryUseCase(registryRepo, provisioner, cfg.Tenancy.StorePrefix, log)

	manager := postgres.NewTenantManager(registryUC, cfg.TenantDB.DSN, postgres.TenantManagerConfig{
		IdleTTL:        time.Duration(cfg.Tenancy.IdleTTLMinutes) * time.Minute,
		SweepEvery:     time.Duration(cfg.Tenancy.SweepSeconds) * time.Second,
		MaxOpenStores:  cfg.Tenancy.MaxOpenStores,
		ConnectRetries: cfg.Tenancy.ConnectAttempts,
		ConnectBackoff: time.Duration(cfg.Tenancy.ConnectBackoffMS) * time.Millisecond,
	}, log)
	defer manager.Shutdown()

	provider := postgres.NewStoreProvider(manager)

	// Eventos de ciclo de vida: sin broker configurado se descartan.
	var publisher lifecycle.EventPublisher = lifecycle.NopPublisher{}
	if cfg.Kafka.Broker != "" {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic, log)
		defer kafkaPub.Close()
		publisher = kafkaPub
	}

	submitUC := lifecycle.NewSubmitApplicationUseCase(provider, log)
	onboardingUC := lifecycle.NewOnboardingUseCase(provider, publisher, log)
	offboardingUC := lifecycle.NewOffboardingUseCase(provider, publisher, log)
	directoryUC := lifecycle.NewDirectoryUseCase(provider)
	reconciler := reconcile.NewReconciler(provider, log)

	if cfg.Reconcile.Enabled {
		scheduler := reconcile.NewScheduler(reconciler, registryUC,
			time.Duration(cfg.Reconcile.IntervalMinutes)*time.Minute, nil, log)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

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
		Title:    "TalentoHR API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegistryUC:    registryUC,
		SubmitUC:      submitUC,
		OnboardingUC:  onboardingUC,
		OffboardingUC: offboardingUC,
		DirectoryUC:   directoryUC,
		Reconciler:    reconciler,
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
