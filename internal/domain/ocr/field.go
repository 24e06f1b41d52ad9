// Package ocr contiene el modelo de campos OCR de una factura escaneada y las utilidades
// para agruparlos por fila y convertir su texto a números.
package ocr

import (
	"errors"
	"fmt"

	"github.com/jhoicas/facturas-ocr/internal/domain"
)

// FieldType identifica la etiqueta de un campo OCR (enum por proveedor).
type FieldType string

// Tipos de campo conocidos. Cada proveedor declara el subconjunto que utiliza.
const (
	// Encabezado
	FechaFactura       FieldType = "fecha_factura"
	NumeroFactura      FieldType = "numero_factura"
	RazonSocial        FieldType = "razon_social"
	TotalFactura       FieldType = "total_factura"
	TotalFacturaSinIVA FieldType = "total_factura_sin_iva"
	NitProveedor       FieldType = "nit_proveedor"

	// Detalle
	Descripcion      FieldType = "descripcion"
	CodigoProducto   FieldType = "codigo_producto"
	TipoEmbalaje     FieldType = "tipo_embalaje"
	UnidadesEmbalaje FieldType = "unidades_embalaje"
	PacksVendidos    FieldType = "packs_vendidos"
	UnidadesVendidas FieldType = "unidades_vendidas"
	Cajas            FieldType = "cajas"
	ValorUnitario    FieldType = "valor_unitario"
	ValorVentaItem   FieldType = "valor_venta_item"
	ValorIbuaYOtros  FieldType = "valor_ibua_y_otros"
	ImpuestoIbua     FieldType = "impuesto_ibua"
	Descuento        FieldType = "descuento"
	PorcentajeIVA    FieldType = "porcentaje_iva"
	PorcentajeICUI   FieldType = "porcentaje_icui"
	OtrosImpuestos   FieldType = "otros_impuestos"

	// Ruido que algunos layouts entregan y nunca llega a la salida.
	Firma            FieldType = "firma"
	Sello            FieldType = "sello"
	Observaciones    FieldType = "observaciones"
	DireccionEntrega FieldType = "direccion_entrega"
	PlacaVehiculo    FieldType = "placa_vehiculo"
)

// Illegible es el texto centinela para valores ilegibles o ausentes.
const Illegible = "[ILEGIBLE]"

// Field es un valor etiquetado extraído por el OCR con su confianza en [0,1].
// Row es 1-based y solo aplica a campos de detalle.
type Field struct {
	Type       FieldType `json:"fieldType"`
	Text       *string   `json:"text,omitempty"`
	Confidence float64   `json:"confidence"`
	Row        *int      `json:"row,omitempty"`
	Error      *string   `json:"error,omitempty"`
}

// NewField construye un campo con texto; row <= 0 lo deja como campo de encabezado.
func NewField(t FieldType, text string, confidence float64, row int) *Field {
	f := &Field{Type: t, Confidence: confidence}
	f.SetText(text)
	if row > 0 {
		r := row
		f.Row = &r
	}
	return f
}

// Value devuelve el texto del campo o "" si está ausente.
func (f *Field) Value() string {
	if f == nil || f.Text == nil {
		return ""
	}
	return *f.Text
}

// SetText reemplaza el texto del campo.
func (f *Field) SetText(text string) {
	t := text
	f.Text = &t
}

// RowNumber devuelve la fila o 0 si el campo no tiene fila.
func (f *Field) RowNumber() int {
	if f == nil || f.Row == nil {
		return 0
	}
	return *f.Row
}

// Upgrade fija la confianza en 1.0 (corroboración exitosa).
func (f *Field) Upgrade() {
	if f != nil {
		f.Confidence = 1
	}
}

// SetError registra un error suave sobre el campo.
func (f *Field) SetError(msg string) {
	if f == nil {
		return
	}
	m := msg
	f.Error = &m
}

// Clone devuelve una copia profunda del campo.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	c := &Field{Type: f.Type, Confidence: f.Confidence}
	if f.Text != nil {
		c.SetText(*f.Text)
	}
	if f.Row != nil {
		r := *f.Row
		c.Row = &r
	}
	if f.Error != nil {
		c.SetError(*f.Error)
	}
	return c
}

// Payload es el documento OCR tal como llega del proveedor de OCR.
type Payload struct {
	Encabezado     []*Field `json:"encabezado"`
	Detalles       []*Field `json:"detalles"`
	TipoFacturaOcr string   `json:"tipoFacturaOcr"`
	FacturaID      int64    `json:"facturaId"`
	SurveyRecordID int64    `json:"surveyRecordId"`
	URLFactura     *string  `json:"urlFactura,omitempty"`
}

// Validate comprueba la forma mínima del payload antes de construir un documento.
func (p *Payload) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: payload nulo", domain.ErrInvalidPayload)
	}
	var errs []error
	if p.FacturaID <= 0 {
		errs = append(errs, fmt.Errorf("facturaId debe ser positivo"))
	}
	errs = append(errs, checkFields("encabezado", p.Encabezado)...)
	errs = append(errs, checkFields("detalles", p.Detalles)...)
	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrInvalidPayload}, errs...)...)
	}
	return nil
}

func checkFields(section string, fields []*Field) []error {
	var errs []error
	for i, f := range fields {
		switch {
		case f == nil:
			errs = append(errs, fmt.Errorf("%s[%d] nulo", section, i))
		case f.Confidence < 0 || f.Confidence > 1:
			errs = append(errs, fmt.Errorf("%s[%d] (%s): confianza fuera de [0,1]", section, i, f.Type))
		}
	}
	return errs
}

// Clone devuelve una copia profunda del payload; el documento muta su copia.
func (p *Payload) Clone() *Payload {
	c := &Payload{
		TipoFacturaOcr: p.TipoFacturaOcr,
		FacturaID:      p.FacturaID,
		SurveyRecordID: p.SurveyRecordID,
	}
	if p.URLFactura != nil {
		u := *p.URLFactura
		c.URLFactura = &u
	}
	c.Encabezado = cloneFields(p.Encabezado)
	c.Detalles = cloneFields(p.Detalles)
	return c
}

func cloneFields(fields []*Field) []*Field {
	out := make([]*Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Clone())
	}
	return out
}
