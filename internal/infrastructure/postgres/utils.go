package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repos aceptan cualquiera.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// levenshteinMaxLen es el largo máximo que acepta levenshtein() de fuzzystrmatch.
const levenshteinMaxLen = 255

// DefaultMaxDistance es la distancia de edición aceptada cuando el repo no recibe otra.
const DefaultMaxDistance = 3

// searchKey normaliza una descripción igual que la columna description_key
// (sin tildes, mayúsculas, espacios colapsados) y la recorta al máximo de levenshtein().
func searchKey(description string) string {
	k := []rune(ocr.Fold(description))
	if len(k) > levenshteinMaxLen {
		k = k[:levenshteinMaxLen]
	}
	return string(k)
}
