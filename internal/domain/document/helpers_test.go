package document_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/entity"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// testNow es el reloj fijo de todos los tests del paquete.
var testNow = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func header(t ocr.FieldType, text string, conf float64) *ocr.Field {
	return ocr.NewField(t, text, conf, 0)
}

func detail(row int, t ocr.FieldType, text string, conf float64) *ocr.Field {
	return ocr.NewField(t, text, conf, row)
}

// payload arma un payload con fecha vigente salvo que el encabezado traiga otra.
func payload(label string, enc []*ocr.Field, det []*ocr.Field) *ocr.Payload {
	return &ocr.Payload{
		Encabezado:     enc,
		Detalles:       det,
		TipoFacturaOcr: label,
		FacturaID:      101,
		SurveyRecordID: 7,
	}
}

func newFactory(catalogs repository.Catalogs) *document.Factory {
	return document.NewFactory(catalogs, document.Options{Now: fixedNow})
}

// process crea y procesa el documento; falla el test ante cualquier error.
func process(t *testing.T, f *document.Factory, p *ocr.Payload) *document.Document {
	t.Helper()
	doc, err := f.Create(p.TipoFacturaOcr, p)
	require.NoError(t, err)
	_, err = doc.Process(context.Background())
	require.NoError(t, err)
	return doc
}

// find devuelve el campo de tipo t en la fila row (0 = encabezado) del resultado.
func find(res document.Result, t ocr.FieldType, row int) *ocr.Field {
	fields := res.Data.Detalles
	if row == 0 {
		fields = res.Data.Encabezado
	}
	for _, f := range fields {
		if f.Type == t && f.RowNumber() == row {
			return f
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogos falsos
// ──────────────────────────────────────────────────────────────────────────────

type fakeHistorical struct {
	byDescription map[string]*entity.HistoricalResult
	calls         int
}

func (f *fakeHistorical) FindByDescriptionAndBusinessName(_ context.Context, _, description string) (*entity.HistoricalResult, error) {
	f.calls++
	return f.byDescription[ocr.Fold(description)], nil
}

type fakeProducts struct {
	byCode        map[string]*entity.CatalogProduct
	byDescription map[string]*entity.CatalogProduct
	err           error
}

func (f *fakeProducts) FindProductByCode(_ context.Context, code string) (*entity.CatalogProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byCode[code], nil
}

func (f *fakeProducts) FindProductByFuzzyDescription(_ context.Context, description string, _ int) (*entity.CatalogProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDescription[ocr.Fold(description)], nil
}

type fakeExcluded struct {
	byDescription map[string]*entity.ExcludedProduct
}

func (f *fakeExcluded) FindExcludedByFuzzyDescription(_ context.Context, description string, _ int) (*entity.ExcludedProduct, error) {
	return f.byDescription[ocr.Fold(description)], nil
}

var errCatalogDown = errors.New("catálogo caído")
