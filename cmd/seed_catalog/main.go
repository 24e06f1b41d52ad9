// seed_catalog carga en PostgreSQL los catálogos del motor (productos, excluidos e histórico)
// a partir de un archivo JSON con las listas "products", "excluded" y "historical".
// Todo se escribe en una sola transacción.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.json]
// Por defecto busca catalogo.json en el directorio actual. La conexión sale de DATABASE_URL / DB_*.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/facturas-ocr/internal/infrastructure/memcatalog"
	"github.com/jhoicas/facturas-ocr/internal/infrastructure/postgres"
	"github.com/jhoicas/facturas-ocr/pkg/config"
	"github.com/jhoicas/facturas-ocr/pkg/logger"
)

func main() {
	path := "catalogo.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_catalog")
	if !cfg.DB.Enabled() {
		log.Fatal().Msg("DATABASE_URL o DB_HOST es requerido")
	}

	cat, err := memcatalog.LoadFile(path, cfg.DB.MaxFuzzyDistance)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("leer catálogo")
	}
	products, excluded, historical := cat.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema de catálogos")
	}

	stats, err := postgres.NewTxRunner(pool).ImportCatalog(ctx, products, excluded, historical)
	if err != nil {
		log.Fatal().Err(err).Msg("importar catálogo")
	}
	log.Info().
		Str("path", path).
		Int("products", stats.Products).
		Int("excluded", stats.Excluded).
		Int("historical", stats.Historical).
		Msg("catálogo importado")
}
