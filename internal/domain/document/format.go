package document

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-ocr/internal/domain"
	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// Valores centinela de la fila canónica. Los consumidores externos dependen de estos literales.
const (
	SentinelString = ocr.Illegible
	SentinelFloat  = -0.01
	SentinelInt    = -1
	SentinelMoney  = -1
	SentinelDate   = "1900-01-01"
	SentinelIBUA   = -2
)

// isoDateLayout es el formato de fecha de la fila canónica.
const isoDateLayout = "2006-01-02"

// CanonicalRow es una línea de producto lista para la base de datos.
type CanonicalRow struct {
	InvoiceID              int64   `json:"invoiceId"`
	RowNumber              int     `json:"rowNumber"`
	SurveyRecordID         int64   `json:"surveyRecordId"`
	BusinessName           string  `json:"businessName"`
	Description            string  `json:"description"`
	InvoiceDate            string  `json:"invoiceDate"`
	InvoiceNumber          string  `json:"invoiceNumber"`
	PackagingType          string  `json:"packagingType"`
	PackagingUnit          int64   `json:"packagingUnit"`
	PacksSold              int64   `json:"packsSold"`
	UnitsSold              float64 `json:"unitsSold"`
	ProductCode            string  `json:"productCode"`
	SaleValue              float64 `json:"saleValue"`
	TotalInvoice           float64 `json:"totalInvoice"`
	TotalInvoiceWithoutVAT float64 `json:"totalInvoiceWithoutVAT"`
	ValueIbuaAndOthers     float64 `json:"valueIbuaAndOthers"`
}

// Format convierte el documento procesado en filas canónicas, una por producto, con
// centinelas en los valores ilegibles. Requiere que Process haya terminado.
func (d *Document) Format() ([]CanonicalRow, error) {
	if !d.processed {
		return nil, domain.ErrNotProcessed
	}
	groups := ocr.GroupByRow(d.data.Detalles)
	if len(d.data.Detalles) > 0 && len(groups) == 0 {
		return nil, domain.ErrUngroupableRows
	}
	cols := d.cfg.Columns
	header := d.header()
	base := CanonicalRow{
		InvoiceID:              d.data.FacturaID,
		SurveyRecordID:         d.data.SurveyRecordID,
		BusinessName:           formatString(header[cols.BusinessName]),
		InvoiceDate:            formatDate(header[cols.InvoiceDate]),
		InvoiceNumber:          formatString(header[cols.InvoiceNumber]),
		TotalInvoice:           formatMoney(header[cols.TotalInvoice]),
		TotalInvoiceWithoutVAT: formatMoney(header[cols.TotalInvoiceWithoutVAT]),
	}
	out := make([]CanonicalRow, 0, len(groups))
	for i, g := range groups {
		r := Row(ocr.ToFieldMap(g))
		row := base
		row.RowNumber = i + 1
		row.Description = formatString(r[cols.Description])
		row.PackagingType = formatString(r[cols.PackagingType])
		row.PackagingUnit = formatInt(r[cols.PackagingUnit])
		row.PacksSold = formatInt(r[cols.PacksSold])
		row.UnitsSold = formatFloat(r[cols.UnitsSold])
		row.ProductCode = formatString(r[cols.ProductCode])
		row.SaleValue = formatMoney(r[cols.SaleValue])
		row.ValueIbuaAndOthers = formatIBUA(r[cols.ValueIbuaAndOthers])
		out = append(out, row)
	}
	return out, nil
}

func formatString(f *ocr.Field) string {
	if ocr.IsIllegible(f) {
		return SentinelString
	}
	return strings.TrimSpace(f.Value())
}

func formatDate(f *ocr.Field) string {
	if ocr.IsIllegible(f) {
		return SentinelDate
	}
	t, err := heuristics.ParseDate(strings.TrimSpace(f.Value()))
	if err != nil {
		return SentinelDate
	}
	return t.Format(isoDateLayout)
}

// parseNumber devuelve el valor del campo si es legible y numérico.
func parseNumber(f *ocr.Field) (decimal.Decimal, bool) {
	if ocr.IsIllegible(f) {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(strings.TrimSpace(f.Value()))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func formatFloat(f *ocr.Field) float64 {
	v, ok := parseNumber(f)
	if !ok {
		return SentinelFloat
	}
	return v.InexactFloat64()
}

func formatInt(f *ocr.Field) int64 {
	v, ok := parseNumber(f)
	if !ok {
		return SentinelInt
	}
	return v.Round(0).IntPart()
}

func formatMoney(f *ocr.Field) float64 {
	v, ok := parseNumber(f)
	if !ok {
		return SentinelMoney
	}
	return v.InexactFloat64()
}

func formatIBUA(f *ocr.Field) float64 {
	v, ok := parseNumber(f)
	if !ok {
		return SentinelIBUA
	}
	return v.InexactFloat64()
}
