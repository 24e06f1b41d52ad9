package heuristics

import "github.com/jhoicas/facturas-ocr/internal/domain/ocr"

// LowConfidenceError es el error suave que deja ThresholdPolicy en campos por debajo del umbral.
const LowConfidenceError = "confianza baja"

// DefaultRoundThreshold es el mínimo a partir del cual RoundPolicy redondea a 1.0.
const DefaultRoundThreshold = 0.95

// ConfidencePolicy ajusta la confianza de un campo sin reducirla nunca.
type ConfidencePolicy interface {
	Apply(f *ocr.Field)
}

// RoundPolicy redondea a 1.0 toda confianza >= Min.
type RoundPolicy struct {
	Min float64
}

// Apply implementa ConfidencePolicy.
func (p RoundPolicy) Apply(f *ocr.Field) {
	if f == nil {
		return
	}
	threshold := p.Min
	if threshold <= 0 {
		threshold = DefaultRoundThreshold
	}
	if f.Confidence >= threshold {
		f.Confidence = 1
	}
	clamp(f)
}

// ThresholdPolicy usa un umbral por tipo de campo: por debajo marca el campo con error
// (si no tenía otro), en o por encima lo sube a 1.0. Tipos sin umbral usan Default; Default 0 deja esos campos igual.
type ThresholdPolicy struct {
	Thresholds map[ocr.FieldType]float64
	Default    float64
}

// Apply implementa ConfidencePolicy.
func (p ThresholdPolicy) Apply(f *ocr.Field) {
	if f == nil {
		return
	}
	threshold, ok := p.Thresholds[f.Type]
	if !ok {
		threshold = p.Default
	}
	if threshold <= 0 {
		clamp(f)
		return
	}
	if f.Confidence < threshold {
		if f.Error == nil {
			f.SetError(LowConfidenceError)
		}
	} else {
		f.Confidence = 1
	}
	clamp(f)
}

func clamp(f *ocr.Field) {
	switch {
	case f.Confidence < 0:
		f.Confidence = 0
	case f.Confidence > 1:
		f.Confidence = 1
	}
}
