// digitize procesa en lote facturas OCR guardadas como JSON y escribe un libro XLSX con
// las filas canónicas y las facturas fallidas.
//
// Uso: go run ./cmd/digitize -in ./facturas [-out facturas.xlsx] [-catalog catalogo.json] [-workers 8]
// Sin -catalog usa PostgreSQL si DATABASE_URL / DB_HOST están definidos; si no, corre sin catálogos.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jhoicas/facturas-ocr/internal/application/digitize"
	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
	"github.com/jhoicas/facturas-ocr/internal/infrastructure/export"
	"github.com/jhoicas/facturas-ocr/internal/infrastructure/memcatalog"
	"github.com/jhoicas/facturas-ocr/internal/infrastructure/payloadfs"
	"github.com/jhoicas/facturas-ocr/internal/infrastructure/postgres"
	"github.com/jhoicas/facturas-ocr/pkg/config"
	"github.com/jhoicas/facturas-ocr/pkg/logger"
)

func main() {
	var (
		in      = flag.String("in", "", "archivo o directorio con facturas OCR en JSON (requerido)")
		out     = flag.String("out", "", "ruta del XLSX de salida (por defecto facturas.xlsx junto a -in)")
		catalog = flag.String("catalog", "", "catálogo JSON en memoria (products, excluded, historical)")
		workers = flag.Int("workers", 0, "facturas en paralelo (por defecto ENGINE_BATCH_WORKERS)")
	)
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in es requerido")
		flag.Usage()
		os.Exit(2)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*in)), "facturas.xlsx")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Engine.BatchWorkers = *workers
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr}).Component("digitize_cli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var catalogs repository.Catalogs
	switch {
	case *catalog != "":
		cat, err := memcatalog.LoadFile(*catalog, cfg.DB.MaxFuzzyDistance)
		if err != nil {
			log.Fatal().Err(err).Str("path", *catalog).Msg("leer catálogo")
		}
		catalogs = cat.Catalogs()
		log.Info().Str("path", *catalog).Msg("catálogo en memoria")
	case cfg.DB.Enabled():
		pool, err := postgres.NewPool(ctx, cfg.DB, int32(cfg.Engine.BatchWorkers+1))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		catalogs = postgres.Catalogs(pool, cfg.DB.MaxFuzzyDistance)
		log.Info().Msg("catálogos en PostgreSQL")
	default:
		log.Warn().Msg("sin catálogos: no habrá corroboración ni exclusión por catálogo")
	}

	payloads, unreadable, err := payloadfs.Read(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("leer facturas")
	}
	for _, fe := range unreadable {
		log.Warn().Str("path", fe.Path).Err(fe.Err).Msg("archivo ignorado")
	}
	log.Info().Int("facturas", len(payloads)).Int("archivos_fallidos", len(unreadable)).Msg("facturas leídas")

	start := time.Now()
	factory := document.NewFactory(catalogs, digitize.FactoryOptions(cfg.Engine, nil))
	uc := digitize.NewUseCase(factory, log)
	res, err := digitize.NewBatchProcessor(uc, cfg.Engine.BatchWorkers).Run(ctx, payloads)
	if err != nil {
		log.Error().Err(err).Msg("lote interrumpido; se exporta lo procesado")
	}

	rows, failed := res.Split()
	failures := make([]export.Failure, 0, len(failed)+len(unreadable))
	for _, f := range failed {
		failures = append(failures, export.Failure{InvoiceID: f.FacturaID, Label: f.Label, Message: f.Message})
	}
	for _, fe := range unreadable {
		failures = append(failures, export.Failure{Message: fe.Error()})
	}

	fh, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("crear archivo de salida")
	}
	if err := export.WriteXLSX(fh, rows, failures); err != nil {
		_ = fh.Close()
		log.Fatal().Err(err).Msg("escribir XLSX")
	}
	if err := fh.Close(); err != nil {
		log.Fatal().Err(err).Msg("cerrar XLSX")
	}

	log.Info().
		Str("out", *out).
		Int("facturas", len(payloads)).
		Int("filas", len(rows)).
		Int("fallidas", len(failures)).
		Dur("elapsed", time.Since(start)).
		Msg("lote completado")
}
