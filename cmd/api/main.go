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

	"github.com/jhoicas/facturas-ocr/internal/application/digitize"
	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
	"github.com/jhoicas/facturas-ocr/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/facturas-ocr/internal/interfaces/http"
	"github.com/jhoicas/facturas-ocr/pkg/config"
	"github.com/jhoicas/facturas-ocr/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("obsolescence_mode", cfg.Engine.ObsolescenceMode).
		Int("batch_workers", cfg.Engine.BatchWorkers).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()

	// Sin base de datos el motor corre sin corroboración por catálogos.
	var catalogs repository.Catalogs
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB, int32(cfg.Engine.BatchWorkers+1))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de catálogos")
		}
		catalogs = postgres.Catalogs(pool, cfg.DB.MaxFuzzyDistance)
	} else {
		log.Warn().Msg("sin base de datos configurada: catálogos deshabilitados")
	}

	factory := document.NewFactory(catalogs, digitize.FactoryOptions(cfg.Engine, nil))
	digitizeUC := digitize.NewUseCase(factory, log)
	batch := digitize.NewBatchProcessor(digitizeUC, cfg.Engine.BatchWorkers)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Facturas OCR API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Digitize:  digitizeUC,
		Batch:     batch,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
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
