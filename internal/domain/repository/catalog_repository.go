package repository

import (
	"context"

	"github.com/jhoicas/facturas-ocr/internal/domain/entity"
)

// Los puertos de catálogo devuelven (nil, nil) cuando no hay coincidencia y propagan
// cualquier error de infraestructura. Las implementaciones deben ser seguras para uso
// concurrente: varios documentos comparten las mismas instancias.

// HistoricalResultRepository consulta resultados históricos ya digitalizados.
type HistoricalResultRepository interface {
	// FindByDescriptionAndBusinessName busca por razón social y descripción normalizada (exacta).
	FindByDescriptionAndBusinessName(ctx context.Context, businessName, description string) (*entity.HistoricalResult, error)
}

// ProductCatalogRepository consulta el catálogo maestro de productos.
type ProductCatalogRepository interface {
	// FindProductByCode busca por código exacto.
	FindProductByCode(ctx context.Context, code string) (*entity.CatalogProduct, error)
	// FindProductByFuzzyDescription busca la descripción más parecida dentro de la empresa,
	// con una distancia de edición acotada.
	FindProductByFuzzyDescription(ctx context.Context, description string, companyID int) (*entity.CatalogProduct, error)
}

// ExcludedProductRepository consulta el catálogo de productos excluidos.
type ExcludedProductRepository interface {
	FindExcludedByFuzzyDescription(ctx context.Context, description string, companyID int) (*entity.ExcludedProduct, error)
}

// Catalogs agrupa los puertos de catálogo que usa el motor de documentos.
type Catalogs struct {
	Historical HistoricalResultRepository
	Products   ProductCatalogRepository
	Excluded   ExcludedProductRepository
}
