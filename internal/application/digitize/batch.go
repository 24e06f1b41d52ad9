package digitize

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// Item es el resultado de una factura del lote, en la misma posición que su payload.
type Item struct {
	Payload *ocr.Payload
	Outcome *Outcome
	Err     error
}

// Failure describe una factura del lote que no aporta filas.
type Failure struct {
	FacturaID int64
	Label     string
	Message   string
}

// BatchResult agrupa los resultados de un lote.
type BatchResult struct {
	Items []Item
}

// Split separa las filas de las facturas válidas de las fallidas. Una factura falla si
// devolvió error, si el documento quedó inválido o si sus detalles no se pudieron agrupar.
func (b *BatchResult) Split() ([]document.CanonicalRow, []Failure) {
	var rows []document.CanonicalRow
	var failures []Failure
	for _, it := range b.Items {
		var id int64
		var label string
		if it.Payload != nil {
			id, label = it.Payload.FacturaID, it.Payload.TipoFacturaOcr
		}
		switch {
		case it.Err != nil:
			failures = append(failures, Failure{FacturaID: id, Label: label, Message: it.Err.Error()})
		case !it.Outcome.Result.IsValid:
			failures = append(failures, Failure{FacturaID: id, Label: label, Message: joinErrors(it.Outcome.Result.Errors)})
		case len(it.Outcome.Result.Errors[document.ErrKeyDetalles]) > 0:
			failures = append(failures, Failure{FacturaID: id, Label: label, Message: it.Outcome.Result.Errors[document.ErrKeyDetalles]})
		default:
			rows = append(rows, it.Outcome.Rows...)
		}
	}
	return rows, failures
}

func joinErrors(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+errs[k])
	}
	return strings.Join(parts, "; ")
}

// BatchProcessor procesa varias facturas en paralelo con un máximo de workers.
// Cada factura es independiente: un error en una no detiene las demás ni se reintenta.
type BatchProcessor struct {
	uc      *UseCase
	workers int
}

// NewBatchProcessor construye el procesador; workers < 1 se toma como 1.
func NewBatchProcessor(uc *UseCase, workers int) *BatchProcessor {
	if workers < 1 {
		workers = 1
	}
	return &BatchProcessor{uc: uc, workers: workers}
}

// Run procesa los payloads y devuelve un Item por payload, en orden. Solo devuelve error
// si ctx se cancela; en ese caso las facturas pendientes quedan con ctx.Err().
func (b *BatchProcessor) Run(ctx context.Context, payloads []*ocr.Payload) (*BatchResult, error) {
	items := make([]Item, len(payloads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, p := range payloads {
		items[i].Payload = p
		if gctx.Err() != nil {
			items[i].Err = gctx.Err()
			continue
		}
		g.Go(func() error {
			items[i].Outcome, items[i].Err = b.uc.Process(gctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return &BatchResult{Items: items}, ctx.Err()
}
