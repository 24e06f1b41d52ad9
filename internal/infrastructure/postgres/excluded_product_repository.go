package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturas-ocr/internal/domain/entity"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

var _ repository.ExcludedProductRepository = (*ExcludedProductRepo)(nil)

// ExcludedProductRepo catálogo de productos que nunca llegan a la salida.
type ExcludedProductRepo struct {
	q           Querier
	maxDistance int
}

// NewExcludedProductRepository construye el adaptador. maxDistance <= 0 usa DefaultMaxDistance.
func NewExcludedProductRepository(q Querier, maxDistance int) *ExcludedProductRepo {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return &ExcludedProductRepo{q: q, maxDistance: maxDistance}
}

// FindExcludedByFuzzyDescription devuelve el excluido más parecido de la empresa.
// El motor confirma la coincidencia exacta sobre la descripción normalizada.
func (r *ExcludedProductRepo) FindExcludedByFuzzyDescription(ctx context.Context, description string, companyID int) (*entity.ExcludedProduct, error) {
	key := searchKey(description)
	if key == "" {
		return nil, nil
	}
	query := `
		SELECT id, company_id, description
		FROM excluded_products
		WHERE company_id = $1 AND levenshtein(description_key, $2) <= $3
		ORDER BY levenshtein(description_key, $2), id
		LIMIT 1`
	var e entity.ExcludedProduct
	err := r.q.QueryRow(ctx, query, companyID, key, r.maxDistance).Scan(&e.ID, &e.CompanyID, &e.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find excluded product: %w", err)
	}
	return &e, nil
}

// Insert agrega un producto excluido.
func (r *ExcludedProductRepo) Insert(ctx context.Context, e *entity.ExcludedProduct) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO excluded_products (company_id, description, description_key) VALUES ($1, $2, $3) RETURNING id`,
		e.CompanyID, e.Description, searchKey(e.Description),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert excluded product: %w", err)
	}
	return nil
}
