package document_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-ocr/internal/domain"
	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

func TestLabels_TablaCerrada(t *testing.T) {
	labels := document.Labels()
	assert.Len(t, labels, 15)
	assert.IsIncreasing(t, labels)
	assert.Contains(t, labels, document.LabelEntregaPostobon)
	assert.Contains(t, labels, document.LabelGeneral)
}

func TestFactory_CreaTodosLosProveedores(t *testing.T) {
	f := newFactory(repository.Catalogs{})
	for _, label := range document.Labels() {
		t.Run(label, func(t *testing.T) {
			doc, err := f.Create(label, payload(label, nil, nil))
			require.NoError(t, err)
			assert.Equal(t, label, doc.Label())
			assert.False(t, doc.Processed())
		})
	}
}

func TestFactory_EtiquetaDesconocida(t *testing.T) {
	f := newFactory(repository.Catalogs{})
	for _, label := range []string{"", "coke", "PEPSI", " COKE"} {
		_, err := f.Create(label, payload(label, nil, nil))
		require.Error(t, err, "label %q", label)
		assert.True(t, errors.Is(err, domain.ErrUnknownVendor), "label %q", label)
	}
}

func TestFactory_PayloadInvalido(t *testing.T) {
	f := newFactory(repository.Catalogs{})
	p := payload(document.LabelCoke, []*ocr.Field{header(ocr.FechaFactura, "01/10/2026", 1.5)}, nil)
	p.FacturaID = 0

	_, err := f.Create(document.LabelCoke, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestFactory_RoundThresholdReemplazaMinimo(t *testing.T) {
	f := document.NewFactory(repository.Catalogs{}, document.Options{Now: fixedNow, RoundThreshold: 0.5})
	p := payload(document.LabelCoke,
		[]*ocr.Field{header(ocr.FechaFactura, "01/10/2026", 1), header(ocr.NitProveedor, "890903858", 0.6)},
		nil)
	res := process(t, f, p).Get()
	assert.Equal(t, 1.0, find(res, ocr.NitProveedor, 0).Confidence)
}

func TestConfig_PoliticasPorProveedor(t *testing.T) {
	coke, err := document.Config(document.LabelCoke)
	require.NoError(t, err)
	assert.IsType(t, heuristics.RoundPolicy{}, coke.Policy)
	assert.NotNil(t, coke.RowCheck)

	quala, err := document.Config(document.LabelQuala)
	require.NoError(t, err)
	assert.IsType(t, heuristics.ThresholdPolicy{}, quala.Policy)
	assert.True(t, quala.FlagMismatch)

	entrega, err := document.Config(document.LabelEntregaPostobon)
	require.NoError(t, err)
	assert.Nil(t, entrega.RowCheck, "las entregas no corren fórmulas")
	assert.Empty(t, entrega.DocumentChecks)

	alpina, err := document.Config(document.LabelAlpina)
	require.NoError(t, err)
	assert.Nil(t, alpina.Policy)

	_, err = document.Config("NADA")
	assert.ErrorIs(t, err, domain.ErrUnknownVendor)
}

func TestConfig_DevuelveCopia(t *testing.T) {
	a, err := document.Config(document.LabelKopps)
	require.NoError(t, err)
	a.Denylist = append(a.Denylist, "MUTADO")
	b, err := document.Config(document.LabelKopps)
	require.NoError(t, err)
	assert.NotContains(t, b.Denylist, "MUTADO")
}
