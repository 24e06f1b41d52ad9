package document

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/facturas-ocr/internal/domain"
	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

// Etiquetas de tipo de factura OCR soportadas.
const (
	LabelCoke             = "COKE"
	LabelFemsa            = "FEMSA"
	LabelInfocargue       = "INFOCARGUE"
	LabelAje              = "AJE"
	LabelEntregaCoke      = "ENTREGA_COKE"
	LabelPostobon         = "POSTOBON"
	LabelTiquetePOS       = "TIQUETE_POS"
	LabelEntregaPostobon  = "ENTREGA_POSTOBON"
	LabelQuala            = "QUALA"
	LabelKopps            = "KOPPS"
	LabelTolima           = "TOLIMA"
	LabelAlpina           = "ALPINA"
	LabelDistribuidorGRPS = "DISTRIBUIDOR_GRPS"
	LabelOtrosProveedores = "OTROS_PROVEEDORES"
	LabelGeneral          = "GENERAL"
)

// vendors es la tabla cerrada etiqueta → configuración. Agregar un proveedor es agregar
// una entrada aquí.
var vendors = map[string]func() *VendorConfig{
	LabelCoke:             func() *VendorConfig { return cokeFamily(LabelCoke, companyCocaCola) },
	LabelFemsa:            func() *VendorConfig { return cokeFamily(LabelFemsa, companyCocaCola) },
	LabelInfocargue:       func() *VendorConfig { return cokeFamily(LabelInfocargue, companyCocaCola) },
	LabelAje:              func() *VendorConfig { return cokeFamily(LabelAje, companyAje) },
	LabelEntregaCoke:      func() *VendorConfig { return cokeFamily(LabelEntregaCoke, companyCocaCola) },
	LabelPostobon:         func() *VendorConfig { return postobonFamily(LabelPostobon, true) },
	LabelTiquetePOS:       func() *VendorConfig { return postobonFamily(LabelTiquetePOS, true) },
	LabelEntregaPostobon:  func() *VendorConfig { return postobonFamily(LabelEntregaPostobon, false) },
	LabelQuala:            newQuala,
	LabelKopps:            newKopps,
	LabelTolima:           newTolima,
	LabelAlpina:           func() *VendorConfig { return passThrough(LabelAlpina, companyAlpina) },
	LabelDistribuidorGRPS: func() *VendorConfig { return passThrough(LabelDistribuidorGRPS, companyGRPS) },
	LabelOtrosProveedores: func() *VendorConfig { return passThrough(LabelOtrosProveedores, companyOtros) },
	LabelGeneral:          func() *VendorConfig { return passThrough(LabelGeneral, companyOtros) },
}

// Labels devuelve las etiquetas soportadas en orden alfabético.
func Labels() []string {
	out := make([]string, 0, len(vendors))
	for l := range vendors {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Options ajusta el comportamiento de los documentos creados por una Factory.
type Options struct {
	// Now es el reloj usado por validación y reparación de fechas (por defecto time.Now).
	Now func() time.Time
	// Obsolescence reemplaza la regla de obsolescencia (por defecto heuristics.HasMonthsPassed).
	Obsolescence heuristics.ObsolescenceRule
	// RoundThreshold reemplaza el mínimo de los proveedores con política de redondeo.
	RoundThreshold float64
}

// Factory es el único punto de construcción de documentos.
type Factory struct {
	catalogs repository.Catalogs
	opts     Options
}

// NewFactory construye la fábrica con los catálogos compartidos por todos los documentos.
func NewFactory(catalogs repository.Catalogs, opts Options) *Factory {
	return &Factory{catalogs: catalogs, opts: opts}
}

// Create construye el documento del proveedor indicado. Una etiqueta desconocida es un
// error fatal para esa factura (domain.ErrUnknownVendor) y no debe reintentarse.
func (f *Factory) Create(label string, payload *ocr.Payload) (*Document, error) {
	build, ok := vendors[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVendor, label)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	cfg := build()
	if _, isRound := cfg.Policy.(heuristics.RoundPolicy); isRound && f.opts.RoundThreshold > 0 {
		cfg.Policy = heuristics.RoundPolicy{Min: f.opts.RoundThreshold}
	}
	return newDocument(cfg, payload, f.catalogs, f.opts), nil
}

// Config devuelve una copia de la configuración del proveedor, para inspección.
func Config(label string) (*VendorConfig, error) {
	build, ok := vendors[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVendor, label)
	}
	return build(), nil
}
