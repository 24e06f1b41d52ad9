package document

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

// Claves del mapa de errores del documento.
const (
	ErrKeyFechaFactura = string(ocr.FechaFactura)
	ErrKeyDetalles     = "detalles"
)

// Mensajes de error del documento.
const (
	MsgInvalidDate    = "formato de fecha inválido"
	MsgObsoleteDate   = "fecha de factura obsoleta"
	MsgUngroupableRow = "filas de detalle no agrupables"
)

// Result es la lectura del documento para el llamador.
type Result struct {
	Data    *ocr.Payload      `json:"data"`
	Errors  map[string]string `json:"errors"`
	IsValid bool              `json:"isValid"`
}

// Document es una factura OCR en proceso para un proveedor concreto. Se crea una vez
// por intento de digitalización (ver Factory) y se muta en sitio en cada etapa.
// No es seguro para uso concurrente; documentos distintos sí pueden procesarse en paralelo.
type Document struct {
	cfg          *VendorConfig
	data         *ocr.Payload
	catalogs     repository.Catalogs
	now          func() time.Time
	obsolescence heuristics.ObsolescenceRule

	errors    map[string]string
	valid     bool
	processed bool
}

func newDocument(cfg *VendorConfig, payload *ocr.Payload, catalogs repository.Catalogs, opts Options) *Document {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rule := opts.Obsolescence
	if rule == nil {
		rule = heuristics.HasMonthsPassed
	}
	return &Document{
		cfg:          cfg,
		data:         payload.Clone(),
		catalogs:     catalogs,
		now:          now,
		obsolescence: rule,
		errors:       make(map[string]string),
		valid:        true,
	}
}

// Label devuelve la etiqueta de proveedor con la que se construyó el documento.
func (d *Document) Label() string { return d.cfg.Label }

// Process ejecuta normalize → validate → infer → exclude → prune en ese orden, siempre
// completo: un documento inválido sigue su curso y el llamador decide qué hacer.
// Solo los errores de los catálogos interrumpen el pipeline.
func (d *Document) Process(ctx context.Context) (*Document, error) {
	d.Normalize()
	d.Validate()
	if err := d.Infer(ctx); err != nil {
		return d, fmt.Errorf("infer %s: %w", d.cfg.Label, err)
	}
	if err := d.Exclude(ctx); err != nil {
		return d, fmt.Errorf("exclude %s: %w", d.cfg.Label, err)
	}
	d.Prune()
	d.processed = true
	return d, nil
}

// Get devuelve una copia de datos, errores y validez del documento; modificarla no
// altera el documento.
func (d *Document) Get() Result {
	errs := make(map[string]string, len(d.errors))
	for k, v := range d.errors {
		errs[k] = v
	}
	return Result{Data: d.data.Clone(), Errors: errs, IsValid: d.valid}
}

// Processed indica si Process terminó sin errores.
func (d *Document) Processed() bool { return d.processed }

// ──────────────────────────────────────────────────────────────────────────────
// normalize
// ──────────────────────────────────────────────────────────────────────────────

// Normalize limpia textos y números, repara la fecha si el proveedor lo permite y
// vuelve negativas las filas REDUCCION de la familia Coca-Cola. Es idempotente.
func (d *Document) Normalize() *Document {
	for _, f := range d.fields() {
		if f.Text == nil {
			continue
		}
		text := strings.TrimSpace(*f.Text)
		switch {
		case contains(d.cfg.Numeric, f.Type):
			text = ocr.NormalizeNumber(text)
		case f.Type == ocr.Descripcion:
			text = strings.Join(strings.Fields(text), " ")
		}
		f.SetText(text)
	}
	if d.cfg.RepairDates {
		heuristics.RepairDate(d.headerField(ocr.FechaFactura), d.now())
	}
	if d.cfg.FlipReduccion {
		for _, r := range d.rows() {
			if IsReduccion(r) {
				flipNegative(r[ocr.ValorVentaItem])
			}
		}
	}
	return d
}

func flipNegative(f *ocr.Field) {
	if ocr.IsIllegible(f) {
		return
	}
	v := ocr.ToDecimal(f)
	if v.IsPositive() {
		f.SetText(v.Neg().String())
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// validate
// ──────────────────────────────────────────────────────────────────────────────

// Validate marca el documento inválido si la fecha de factura no es dd/mm/yyyy o es obsoleta.
func (d *Document) Validate() {
	date := d.headerField(ocr.FechaFactura)
	switch {
	case ocr.IsIllegible(date) || !heuristics.IsValidDate(date.Value()):
		d.fail(ErrKeyFechaFactura, MsgInvalidDate)
	case d.obsolescence(date.Value(), d.cfg.obsolescenceMonths(), d.now()):
		d.fail(ErrKeyFechaFactura, MsgObsoleteDate)
	}
	if len(d.data.Detalles) > 0 && len(ocr.GroupByRow(d.data.Detalles)) == 0 {
		d.errors[ErrKeyDetalles] = MsgUngroupableRow
	}
}

func (d *Document) fail(key, msg string) {
	d.valid = false
	d.errors[key] = msg
}

// ──────────────────────────────────────────────────────────────────────────────
// infer
// ──────────────────────────────────────────────────────────────────────────────

// Infer sube a 1.0 la confianza de los campos corroborados. Nunca la reduce.
// Las consultas a catálogos se hacen fila por fila, en orden. La política de confianza
// se aplica al final y solo a los campos que nada corroboró.
func (d *Document) Infer(ctx context.Context) error {

	header := d.header()
	if d.cfg.InferHeader {
		InferDate(header[ocr.FechaFactura], d.now(), d.cfg.RepairDates)
		InferInvoiceNumber(header[ocr.NumeroFactura])
		InferBusinessName(header[ocr.RazonSocial])
		InferNIT(header[ocr.NitProveedor])
	}

	rows := d.rows()
	for _, r := range rows {
		if IsReduccion(r) {
			for _, f := range r {
				f.Upgrade()
			}
			continue
		}
		if d.cfg.InferPackaging {
			InferPackagingType(r[ocr.TipoEmbalaje])
		}
		if d.cfg.Corroborate {
			if err := d.corroborate(ctx, header, r); err != nil {
				return err
			}
		}
		if d.cfg.RowCheck != nil {
			if c, ok := d.cfg.RowCheck(r); ok {
				c.apply(d.cfg.FlagMismatch)
			}
		}
	}

	for _, check := range d.cfg.DocumentChecks {
		for _, c := range check(header, rows) {
			c.apply(d.cfg.FlagMismatch)
		}
	}

	if d.cfg.Policy != nil {
		for _, f := range d.fields() {
			if f.Confidence < 1 {
				d.cfg.Policy.Apply(f)
			}
		}
	}
	return nil
}

// corroborate valida descripción y código contra los catálogos y completa código,
// tipo y unidades de embalaje desde el catálogo de productos.
func (d *Document) corroborate(ctx context.Context, header, r Row) error {
	desc := r[ocr.Descripcion]
	code := r[ocr.CodigoProducto]
	businessName := header[ocr.RazonSocial]

	if d.catalogs.Historical != nil && !ocr.IsIllegible(desc) && !ocr.IsIllegible(businessName) {
		hist, err := d.catalogs.Historical.FindByDescriptionAndBusinessName(ctx, businessName.Value(), desc.Value())
		if err != nil {
			return fmt.Errorf("resultado histórico: %w", err)
		}
		if hist != nil && ocr.Fold(hist.Description) == ocr.Fold(desc.Value()) {
			desc.Upgrade()
		}
	}

	if d.catalogs.Products == nil {
		return nil
	}
	if !ocr.IsIllegible(code) {
		p, err := d.catalogs.Products.FindProductByCode(ctx, code.Value())
		if err != nil {
			return fmt.Errorf("producto por código: %w", err)
		}
		if p != nil && p.ProductCode == code.Value() {
			code.Upgrade()
		}
	}
	if ocr.IsIllegible(desc) {
		return nil
	}
	p, err := d.catalogs.Products.FindProductByFuzzyDescription(ctx, desc.Value(), d.cfg.CompanyID)
	if err != nil {
		return fmt.Errorf("producto por descripción: %w", err)
	}
	if p == nil {
		return nil
	}
	rowNumber := desc.RowNumber()
	d.fillOrConfirm(r, rowNumber, ocr.CodigoProducto, p.ProductCode, textEqual)
	d.fillOrConfirm(r, rowNumber, ocr.TipoEmbalaje, p.PackagingType, textEqual)
	if p.PackagingUnit > 0 {
		d.fillOrConfirm(r, rowNumber, ocr.UnidadesEmbalaje, strconv.Itoa(p.PackagingUnit), numberEqual)
	}
	return nil
}

func textEqual(a, b string) bool { return ocr.Fold(a) == ocr.Fold(b) }

func numberEqual(a, b string) bool {
	x := ocr.ToDecimal(&ocr.Field{Text: &a})
	y := ocr.ToDecimal(&ocr.Field{Text: &b})
	return x.Equal(y) && strings.TrimSpace(a) != ""
}

// fillOrConfirm completa un campo ilegible o ausente con el valor del catálogo, o sube su
// confianza si ya coincide. Solo actúa sobre campos del enum del proveedor.
func (d *Document) fillOrConfirm(r Row, row int, t ocr.FieldType, value string, equal func(a, b string) bool) {
	if value == "" || !d.cfg.hasDetail(t) {
		return
	}
	f := r[t]
	switch {
	case f == nil:
		f = ocr.NewField(t, value, 1, row)
		d.data.Detalles = append(d.data.Detalles, f)
		r[t] = f
	case ocr.IsIllegible(f):
		f.SetText(value)
		f.Upgrade()
	case equal(f.Value(), value):
		f.Upgrade()
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// exclude / prune
// ──────────────────────────────────────────────────────────────────────────────

// Exclude elimina las filas cuya descripción contiene una palabra de la lista negra del
// proveedor o coincide con el catálogo de productos excluidos.
func (d *Document) Exclude(ctx context.Context) error {
	groups := ocr.GroupByRow(d.data.Detalles)
	if len(groups) == 0 {
		return nil
	}
	excluded := make(map[int]bool)
	for _, g := range groups {
		r := Row(ocr.ToFieldMap(g))
		desc := r[ocr.Descripcion]
		if ocr.IsIllegible(desc) {
			continue
		}
		folded := ocr.Fold(desc.Value())
		if d.denied(folded) {
			excluded[desc.RowNumber()] = true
			continue
		}
		if d.catalogs.Excluded == nil {
			continue
		}
		ex, err := d.catalogs.Excluded.FindExcludedByFuzzyDescription(ctx, desc.Value(), d.cfg.CompanyID)
		if err != nil {
			return fmt.Errorf("producto excluido: %w", err)
		}
		if ex != nil && ocr.Fold(ex.Description) == folded {
			excluded[desc.RowNumber()] = true
		}
	}
	if len(excluded) == 0 {
		return nil
	}
	kept := d.data.Detalles[:0]
	for _, f := range d.data.Detalles {
		if !excluded[f.RowNumber()] {
			kept = append(kept, f)
		}
	}
	d.data.Detalles = kept
	return nil
}

func (d *Document) denied(folded string) bool {
	for _, kw := range d.cfg.Denylist {
		if strings.Contains(folded, ocr.Fold(kw)) {
			return true
		}
	}
	return false
}

// Prune elimina los campos de la lista negra del proveedor y los que no pertenecen a su enum.
func (d *Document) Prune() {
	d.data.Encabezado = d.keep(d.data.Encabezado, d.cfg.Header)
	d.data.Detalles = d.keep(d.data.Detalles, d.cfg.Detail)
}

func (d *Document) keep(fields []*ocr.Field, allowed []ocr.FieldType) []*ocr.Field {
	out := make([]*ocr.Field, 0, len(fields))
	for _, f := range fields {
		if f == nil || contains(d.cfg.Blacklist, f.Type) || !contains(allowed, f.Type) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// acceso a campos
// ──────────────────────────────────────────────────────────────────────────────

func (d *Document) fields() []*ocr.Field {
	out := make([]*ocr.Field, 0, len(d.data.Encabezado)+len(d.data.Detalles))
	for _, f := range d.data.Encabezado {
		if f != nil {
			out = append(out, f)
		}
	}
	for _, f := range d.data.Detalles {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

func (d *Document) header() Row {
	return Row(ocr.ToFieldMap(d.data.Encabezado))
}

func (d *Document) headerField(t ocr.FieldType) *ocr.Field {
	return d.header()[t]
}

func (d *Document) rows() []Row {
	groups := ocr.GroupByRow(d.data.Detalles)
	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, Row(ocr.ToFieldMap(g)))
	}
	return rows
}
