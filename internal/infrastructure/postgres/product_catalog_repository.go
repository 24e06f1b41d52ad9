package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturas-ocr/internal/domain/entity"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

var _ repository.ProductCatalogRepository = (*ProductCatalogRepo)(nil)

// ProductCatalogRepo implementación del catálogo maestro de productos sobre PostgreSQL.
type ProductCatalogRepo struct {
	q           Querier
	maxDistance int
}

// NewProductCatalogRepository construye el adaptador. maxDistance <= 0 usa DefaultMaxDistance.
func NewProductCatalogRepository(q Querier, maxDistance int) *ProductCatalogRepo {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return &ProductCatalogRepo{q: q, maxDistance: maxDistance}
}

const productColumns = `id, company_id, product_code, description, packaging_type, packaging_unit`

// FindProductByCode busca por código exacto.
func (r *ProductCatalogRepo) FindProductByCode(ctx context.Context, code string) (*entity.CatalogProduct, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products WHERE product_code = $1 ORDER BY id LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("find product by code: %w", err)
	}
	return p, nil
}

// FindProductByFuzzyDescription devuelve el producto de la empresa con menor distancia de
// Levenshtein a la descripción, siempre que no supere maxDistance.
func (r *ProductCatalogRepo) FindProductByFuzzyDescription(ctx context.Context, description string, companyID int) (*entity.CatalogProduct, error) {
	key := searchKey(description)
	if key == "" {
		return nil, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM catalog_products
		WHERE company_id = $1 AND levenshtein(description_key, $2) <= $3
		ORDER BY levenshtein(description_key, $2), id
		LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, companyID, key, r.maxDistance))
	if err != nil {
		return nil, fmt.Errorf("find product by description: %w", err)
	}
	return p, nil
}

// Upsert inserta o actualiza un producto del catálogo por (empresa, código).
func (r *ProductCatalogRepo) Upsert(ctx context.Context, p *entity.CatalogProduct) error {
	query := `
		INSERT INTO catalog_products (company_id, product_code, description, description_key, packaging_type, packaging_unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, product_code) DO UPDATE SET
			description     = EXCLUDED.description,
			description_key = EXCLUDED.description_key,
			packaging_type  = EXCLUDED.packaging_type,
			packaging_unit  = EXCLUDED.packaging_unit
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.CompanyID, p.ProductCode, p.Description, searchKey(p.Description), p.PackagingType, p.PackagingUnit,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert catalog product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.CatalogProduct, error) {
	var p entity.CatalogProduct
	err := row.Scan(&p.ID, &p.CompanyID, &p.ProductCode, &p.Description, &p.PackagingType, &p.PackagingUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
