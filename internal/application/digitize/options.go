package digitize

import (
	"time"

	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/pkg/config"
)

// FactoryOptions traduce la configuración del motor a opciones de la fábrica de documentos.
// now nil usa time.Now.
func FactoryOptions(cfg config.EngineConfig, now func() time.Time) document.Options {
	opts := document.Options{Now: now, RoundThreshold: cfg.RoundThreshold}
	if cfg.ObsolescenceMode == config.ObsolescenceCalendar {
		opts.Obsolescence = heuristics.HasCalendarMonthsPassed
	}
	return opts
}
