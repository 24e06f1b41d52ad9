package ocr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-ocr/internal/domain"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// ──────────────────────────────────────────────────────────────────────────────
// GroupByRow
// ──────────────────────────────────────────────────────────────────────────────

func TestGroupByRow_OrdenaPorFilaYConservaCampos(t *testing.T) {
	fields := []*ocr.Field{
		ocr.NewField(ocr.Descripcion, "GASEOSA", 0.9, 2),
		ocr.NewField(ocr.Descripcion, "AGUA", 0.9, 1),
		ocr.NewField(ocr.ValorVentaItem, "1000", 0.8, 2),
		ocr.NewField(ocr.ValorVentaItem, "500", 0.8, 1),
		ocr.NewField(ocr.CodigoProducto, "A1", 0.7, 3),
	}

	groups := ocr.GroupByRow(fields)

	require.Len(t, groups, 3, "una lista por cada fila distinta")
	assert.Equal(t, 1, groups[0][0].RowNumber())
	assert.Equal(t, 2, groups[1][0].RowNumber())
	assert.Equal(t, 3, groups[2][0].RowNumber())

	// Concatenar los grupos devuelve cada campo exactamente una vez.
	seen := make(map[*ocr.Field]int)
	for _, g := range groups {
		for _, f := range g {
			seen[f]++
		}
	}
	assert.Len(t, seen, len(fields))
	for _, f := range fields {
		assert.Equal(t, 1, seen[f])
	}
}

func TestGroupByRow_FilasConHuecos(t *testing.T) {
	groups := ocr.GroupByRow([]*ocr.Field{
		ocr.NewField(ocr.Descripcion, "X", 1, 5),
		ocr.NewField(ocr.Descripcion, "Y", 1, 2),
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "Y", groups[0][0].Value())
	assert.Equal(t, "X", groups[1][0].Value())
}

func TestGroupByRow_FilaAusenteONoPositivaDevuelveVacio(t *testing.T) {
	zero := 0
	casos := map[string]*ocr.Field{
		"sin fila":      ocr.NewField(ocr.Descripcion, "X", 1, 0),
		"fila cero":     {Type: ocr.Descripcion, Row: &zero},
		"fila negativa": {Type: ocr.Descripcion, Row: func() *int { n := -3; return &n }()},
	}
	for name, bad := range casos {
		t.Run(name, func(t *testing.T) {
			groups := ocr.GroupByRow([]*ocr.Field{ocr.NewField(ocr.Descripcion, "A", 1, 1), bad})
			require.NotNil(t, groups)
			assert.Empty(t, groups)
		})
	}
}

func TestGroupByRow_EntradaVacia(t *testing.T) {
	assert.Empty(t, ocr.GroupByRow(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// ToFieldMap / ToNumber / IsNumericTail / IsIllegible
// ──────────────────────────────────────────────────────────────────────────────

func TestToFieldMap_DuplicadoGanaElUltimo(t *testing.T) {
	first := ocr.NewField(ocr.Descripcion, "PRIMERO", 1, 1)
	last := ocr.NewField(ocr.Descripcion, "ULTIMO", 1, 1)
	m := ocr.ToFieldMap([]*ocr.Field{first, last})
	assert.Same(t, last, m[ocr.Descripcion])
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 12000.0, ocr.ToNumber(ocr.NewField(ocr.ValorVentaItem, "12000", 1, 1)))
	assert.Equal(t, 1.2, ocr.ToNumber(ocr.NewField(ocr.UnidadesVendidas, " 1.2 ", 1, 1)))
	assert.Equal(t, 0.0, ocr.ToNumber(ocr.NewField(ocr.UnidadesVendidas, "abc", 1, 1)))
	assert.Equal(t, 0.0, ocr.ToNumber(&ocr.Field{Type: ocr.UnidadesVendidas}))
	assert.Equal(t, 0.0, ocr.ToNumber(nil))
}

func TestIsNumericTail(t *testing.T) {
	assert.True(t, ocr.IsNumericTail("61443"))
	assert.True(t, ocr.IsNumericTail("-1234"))
	assert.False(t, ocr.IsNumericTail("0-614"))
	assert.False(t, ocr.IsNumericTail(""))
	assert.False(t, ocr.IsNumericTail("12a45"))
}

func TestIsIllegible_CentinelaEsIdempotente(t *testing.T) {
	assert.True(t, ocr.IsIllegible(nil))
	assert.True(t, ocr.IsIllegible(&ocr.Field{Type: ocr.Descripcion}))
	assert.True(t, ocr.IsIllegible(ocr.NewField(ocr.Descripcion, "   ", 1, 1)))
	assert.True(t, ocr.IsIllegible(ocr.NewField(ocr.Descripcion, ocr.Illegible, 1, 1)))
	assert.False(t, ocr.IsIllegible(ocr.NewField(ocr.Descripcion, "AGUA", 1, 1)))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "REDUCCION", ocr.Fold("  reducción "))
	assert.Equal(t, "GASEOSA LIMON 400ML", ocr.Fold("Gaseosa   limón 400ml"))
}

func TestNormalizeNumber(t *testing.T) {
	casos := map[string]string{
		"$ 12.000.000": "12000000",
		"1.234,50":     "1234.50",
		"12,000":       "12000",
		"1,2":          "1.2",
		"1200-":        "-1200",
		"12.000":       "12.000",
		"1.2":          "1.2",
		ocr.Illegible:  ocr.Illegible,
		"":             "",
		"12 500,5":     "12500.5",
	}
	for in, want := range casos {
		got := ocr.NormalizeNumber(in)
		assert.Equal(t, want, got, "entrada %q", in)
		assert.Equal(t, got, ocr.NormalizeNumber(got), "idempotencia para %q", in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Payload
// ──────────────────────────────────────────────────────────────────────────────

func TestPayloadValidate(t *testing.T) {
	ok := &ocr.Payload{FacturaID: 10, Encabezado: []*ocr.Field{ocr.NewField(ocr.FechaFactura, "01/01/2026", 0.5, 0)}}
	assert.NoError(t, ok.Validate())

	bad := &ocr.Payload{FacturaID: 0, Detalles: []*ocr.Field{nil, {Type: ocr.Descripcion, Confidence: 1.5}}}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPayload))

	var nilPayload *ocr.Payload
	assert.ErrorIs(t, nilPayload.Validate(), domain.ErrInvalidPayload)
}

func TestPayloadClone_EsProfundo(t *testing.T) {
	p := &ocr.Payload{FacturaID: 1, Detalles: []*ocr.Field{ocr.NewField(ocr.Descripcion, "AGUA", 0.5, 1)}}
	c := p.Clone()
	c.Detalles[0].SetText("OTRA")
	c.Detalles[0].Upgrade()
	assert.Equal(t, "AGUA", p.Detalles[0].Value())
	assert.Equal(t, 0.5, p.Detalles[0].Confidence)
}
