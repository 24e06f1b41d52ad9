package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturas-ocr/internal/domain/entity"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

var _ repository.HistoricalResultRepository = (*HistoricalResultRepo)(nil)

// HistoricalResultRepo resultados ya digitalizados y revisados.
type HistoricalResultRepo struct {
	q Querier
}

// NewHistoricalResultRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoricalResultRepository(q Querier) *HistoricalResultRepo {
	return &HistoricalResultRepo{q: q}
}

// FindByDescriptionAndBusinessName devuelve el resultado más reciente con la misma razón
// social y descripción normalizada.
func (r *HistoricalResultRepo) FindByDescriptionAndBusinessName(ctx context.Context, businessName, description string) (*entity.HistoricalResult, error) {
	query := `
		SELECT id, business_name, description, product_code, packaging_type, packaging_unit, unit_price, invoice_date
		FROM historical_results
		WHERE upper(business_name) = $1 AND description_key = $2
		ORDER BY invoice_date DESC, id DESC
		LIMIT 1`
	var h entity.HistoricalResult
	err := r.q.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(businessName)), searchKey(description)).Scan(
		&h.ID, &h.BusinessName, &h.Description, &h.ProductCode, &h.PackagingType, &h.PackagingUnit, &h.UnitPrice, &h.InvoiceDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find historical result: %w", err)
	}
	return &h, nil
}

// Insert guarda un resultado revisado para futuras corroboraciones.
func (r *HistoricalResultRepo) Insert(ctx context.Context, h *entity.HistoricalResult) error {
	query := `
		INSERT INTO historical_results (business_name, description, description_key, product_code, packaging_type, packaging_unit, unit_price, invoice_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		h.BusinessName, h.Description, searchKey(h.Description), h.ProductCode, h.PackagingType,
		h.PackagingUnit, h.UnitPrice, h.InvoiceDate,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("insert historical result: %w", err)
	}
	return nil
}
