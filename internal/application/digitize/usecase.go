package digitize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-ocr/internal/domain"
	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
	"github.com/jhoicas/facturas-ocr/pkg/logger"
)

// Outcome es el resultado de digitalizar una factura.
type Outcome struct {
	TraceID   string
	Label     string
	FacturaID int64
	Result    document.Result
	// Rows queda vacío si los detalles no se pudieron agrupar (ver Result.Errors).
	Rows []document.CanonicalRow
}

// UseCase digitaliza una factura OCR: construye el documento del proveedor, corre el
// pipeline completo y formatea las filas canónicas.
type UseCase struct {
	factory *document.Factory
	log     *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(factory *document.Factory, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{factory: factory, log: log.Component("digitize")}
}

// Process digitaliza el payload. Devuelve error si el tipo de factura no existe
// (domain.ErrUnknownVendor), si el payload es inválido (domain.ErrInvalidPayload) o si
// falla un catálogo. Un documento inválido no es error: se informa en Outcome.Result.
func (uc *UseCase) Process(ctx context.Context, payload *ocr.Payload) (*Outcome, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: payload nulo", domain.ErrInvalidPayload)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	traceID := uuid.NewString()
	log := uc.log.With().
		Str("trace_id", traceID).
		Str("tipo_factura", payload.TipoFacturaOcr).
		Int64("factura_id", payload.FacturaID).
		Logger()

	doc, err := uc.factory.Create(payload.TipoFacturaOcr, payload)
	if err != nil {
		log.Warn().Err(err).Msg("factura rechazada")
		return nil, err
	}
	if _, err := doc.Process(ctx); err != nil {
		log.Error().Err(err).Msg("error procesando factura")
		return nil, err
	}

	out := &Outcome{
		TraceID:   traceID,
		Label:     doc.Label(),
		FacturaID: payload.FacturaID,
		Result:    doc.Get(),
	}
	rows, err := doc.Format()
	switch {
	case errors.Is(err, domain.ErrUngroupableRows):
		log.Warn().Msg("detalles sin fila; no se generan filas canónicas")
	case err != nil:
		return nil, err
	default:
		out.Rows = rows
	}

	log.Info().
		Bool("valid", out.Result.IsValid).
		Int("rows", len(out.Rows)).
		Int("errors", len(out.Result.Errors)).
		Dur("elapsed", time.Since(start)).
		Msg("factura procesada")
	return out, nil
}
