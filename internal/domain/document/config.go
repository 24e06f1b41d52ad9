// Package document implementa el motor de validación e inferencia de confianza de facturas
// OCR. Cada proveedor es un VendorConfig (campos, fórmulas, políticas, mapeo de salida)
// que corre sobre un único pipeline: normalize → validate → infer → exclude → prune → format.
package document

import (
	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// Tolerance es la diferencia máxima (en unidades de moneda) aceptada entre el valor
// calculado por una fórmula y el leído por el OCR.
const Tolerance = 1

// DefaultObsolescenceMonths aplica cuando un proveedor no define su ventana.
const DefaultObsolescenceMonths = 2

// ColumnMap indica de qué tipo de campo sale cada columna de la fila canónica.
// Un tipo vacío deja la columna siempre con su valor centinela.
type ColumnMap struct {
	// Encabezado
	BusinessName           ocr.FieldType
	InvoiceDate            ocr.FieldType
	InvoiceNumber          ocr.FieldType
	TotalInvoice           ocr.FieldType
	TotalInvoiceWithoutVAT ocr.FieldType

	// Detalle
	Description        ocr.FieldType
	PackagingType      ocr.FieldType
	PackagingUnit      ocr.FieldType
	PacksSold          ocr.FieldType
	UnitsSold          ocr.FieldType
	ProductCode        ocr.FieldType
	SaleValue          ocr.FieldType
	ValueIbuaAndOthers ocr.FieldType
}

// defaultColumns es el mapeo compartido por la mayoría de layouts.
var defaultColumns = ColumnMap{
	BusinessName:           ocr.RazonSocial,
	InvoiceDate:            ocr.FechaFactura,
	InvoiceNumber:          ocr.NumeroFactura,
	TotalInvoice:           ocr.TotalFactura,
	TotalInvoiceWithoutVAT: ocr.TotalFacturaSinIVA,
	Description:            ocr.Descripcion,
	PackagingType:          ocr.TipoEmbalaje,
	PackagingUnit:          ocr.UnidadesEmbalaje,
	PacksSold:              ocr.PacksVendidos,
	UnitsSold:              ocr.UnidadesVendidas,
	ProductCode:            ocr.CodigoProducto,
	SaleValue:              ocr.ValorVentaItem,
	ValueIbuaAndOthers:     ocr.ValorIbuaYOtros,
}

// VendorConfig describe todo lo que distingue a un layout de proveedor.
type VendorConfig struct {
	Label     string
	CompanyID int

	// Enum de campos del proveedor.
	Header []ocr.FieldType
	Detail []ocr.FieldType
	// Numeric son los campos cuyo texto se limpia con ocr.NormalizeNumber.
	Numeric []ocr.FieldType
	// Blacklist son campos que nunca llegan a la salida, sin importar su confianza.
	Blacklist []ocr.FieldType
	// Denylist son palabras clave que excluyen la fila completa si aparecen en la descripción.
	Denylist []string

	ObsolescenceMonths int
	RepairDates        bool

	// InferHeader activa la inferencia de fecha, número de factura y razón social.
	InferHeader bool
	// InferPackaging activa la validación del tipo de embalaje contra PackagingCodes.
	InferPackaging bool
	// Corroborate activa la corroboración por catálogos (histórico, código, descripción difusa).
	Corroborate bool
	// FlipReduccion vuelve negativo el valor de venta de las filas REDUCCION.
	FlipReduccion bool
	// FlagMismatch marca error en el valor observado cuando una fórmula no cuadra.
	FlagMismatch bool

	// Policy es la política de confianza; nil confía en el OCR tal cual.
	Policy heuristics.ConfidencePolicy

	RowCheck       RowCheck
	DocumentChecks []DocumentCheck

	Columns ColumnMap
}

func (c *VendorConfig) obsolescenceMonths() int {
	if c.ObsolescenceMonths > 0 {
		return c.ObsolescenceMonths
	}
	return DefaultObsolescenceMonths
}

func (c *VendorConfig) hasDetail(t ocr.FieldType) bool {
	return contains(c.Detail, t)
}

func contains(types []ocr.FieldType, t ocr.FieldType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
