package heuristics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

func TestRoundPolicy(t *testing.T) {
	p := heuristics.RoundPolicy{Min: heuristics.DefaultRoundThreshold}

	high := ocr.NewField(ocr.Descripcion, "AGUA", 0.95, 1)
	low := ocr.NewField(ocr.Descripcion, "AGUA", 0.949, 1)
	p.Apply(high)
	p.Apply(low)

	assert.Equal(t, 1.0, high.Confidence)
	assert.Equal(t, 0.949, low.Confidence)
	assert.Nil(t, low.Error, "la política de redondeo no marca errores")
}

func TestRoundPolicy_MinCeroUsaDefault(t *testing.T) {
	f := ocr.NewField(ocr.Descripcion, "AGUA", 0.96, 1)
	heuristics.RoundPolicy{}.Apply(f)
	assert.Equal(t, 1.0, f.Confidence)
}

func TestThresholdPolicy(t *testing.T) {
	p := heuristics.ThresholdPolicy{
		Thresholds: map[ocr.FieldType]float64{
			ocr.ValorVentaItem: 0.8,
			ocr.Descripcion:    0.6,
		},
	}

	venta := ocr.NewField(ocr.ValorVentaItem, "1000", 0.79, 1)
	desc := ocr.NewField(ocr.Descripcion, "AGUA", 0.6, 1)
	otro := ocr.NewField(ocr.CodigoProducto, "X", 0.1, 1)
	p.Apply(venta)
	p.Apply(desc)
	p.Apply(otro)

	assert.Equal(t, 0.79, venta.Confidence)
	if assert.NotNil(t, venta.Error) {
		assert.Equal(t, heuristics.LowConfidenceError, *venta.Error)
	}
	assert.Equal(t, 1.0, desc.Confidence, "en el umbral sube a 1.0")
	assert.Nil(t, desc.Error)
	assert.Equal(t, 0.1, otro.Confidence, "sin umbral ni default no cambia")
	assert.Nil(t, otro.Error)
}

func TestThresholdPolicy_Default(t *testing.T) {
	p := heuristics.ThresholdPolicy{Default: 0.9}
	f := ocr.NewField(ocr.CodigoProducto, "X", 0.5, 1)
	p.Apply(f)
	assert.NotNil(t, f.Error)
}

func TestThresholdPolicy_ConservaErrorPrevio(t *testing.T) {
	f := ocr.NewField(ocr.ValorVentaItem, "1000", 0.2, 1)
	f.SetError("valor no cuadra: esperado 900, leído 1000")
	heuristics.ThresholdPolicy{Default: 0.8}.Apply(f)

	if assert.NotNil(t, f.Error) {
		assert.Contains(t, *f.Error, "valor no cuadra")
	}
}

// Ninguna política reduce la confianza ni la deja fuera de [0,1].
func TestPoliticas_MonotonasYAcotadas(t *testing.T) {
	policies := []heuristics.ConfidencePolicy{
		heuristics.RoundPolicy{Min: 0.95},
		heuristics.ThresholdPolicy{Default: 0.7},
		heuristics.ThresholdPolicy{},
	}
	for _, p := range policies {
		for c := 0.0; c <= 1.0; c += 0.05 {
			f := ocr.NewField(ocr.Descripcion, "X", c, 1)
			p.Apply(f)
			assert.GreaterOrEqual(t, f.Confidence, c-1e-9)
			assert.GreaterOrEqual(t, f.Confidence, 0.0)
			assert.LessOrEqual(t, f.Confidence, 1.0)
		}
	}
	assert.NotPanics(t, func() { heuristics.RoundPolicy{}.Apply(nil) })
	assert.NotPanics(t, func() { heuristics.ThresholdPolicy{}.Apply(nil) })
}
