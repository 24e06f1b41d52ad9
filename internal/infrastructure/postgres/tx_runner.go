package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/facturas-ocr/internal/domain/entity"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

// Catalogs devuelve los tres puertos de catálogo sobre q (pool o transacción).
func Catalogs(q Querier, maxDistance int) repository.Catalogs {
	return repository.Catalogs{
		Historical: NewHistoricalResultRepository(q),
		Products:   NewProductCatalogRepository(q, maxDistance),
		Excluded:   NewExcludedProductRepository(q, maxDistance),
	}
}

// CatalogWriters son los repositorios de catálogo atados a una transacción.
type CatalogWriters struct {
	Products   *ProductCatalogRepo
	Excluded   *ExcludedProductRepo
	Historical *HistoricalResultRepo
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(w CatalogWriters) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w := CatalogWriters{
		Products:   NewProductCatalogRepository(tx, 0),
		Excluded:   NewExcludedProductRepository(tx, 0),
		Historical: NewHistoricalResultRepository(tx),
	}
	if err := fn(w); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ImportStats cuenta lo escrito por ImportCatalog.
type ImportStats struct {
	Products   int
	Excluded   int
	Historical int
}

// ImportCatalog escribe productos, excluidos e histórico en una sola transacción:
// si algo falla, no queda nada a medias.
func (r *TxRunner) ImportCatalog(ctx context.Context, products []entity.CatalogProduct, excluded []entity.ExcludedProduct, historical []entity.HistoricalResult) (ImportStats, error) {
	var stats ImportStats
	err := r.Run(ctx, func(w CatalogWriters) error {
		for i := range products {
			p := products[i]
			p.ID = 0
			if err := w.Products.Upsert(ctx, &p); err != nil {
				return fmt.Errorf("producto %q: %w", p.ProductCode, err)
			}
			stats.Products++
		}
		for i := range excluded {
			e := excluded[i]
			e.ID = 0
			if err := w.Excluded.Insert(ctx, &e); err != nil {
				return fmt.Errorf("excluido %q: %w", e.Description, err)
			}
			stats.Excluded++
		}
		for i := range historical {
			h := historical[i]
			h.ID = 0
			if err := w.Historical.Insert(ctx, &h); err != nil {
				return fmt.Errorf("histórico %q: %w", h.Description, err)
			}
			stats.Historical++
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}
