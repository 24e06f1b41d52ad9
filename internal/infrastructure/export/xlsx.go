// Package export escribe las filas canónicas de un lote de facturas en un libro XLSX.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/facturas-ocr/internal/domain/document"
)

// Hojas del libro.
const (
	SheetRows     = "Filas"
	SheetFailures = "Errores"
)

// Failure es una factura del lote que no produjo filas.
type Failure struct {
	InvoiceID int64
	Label     string
	Message   string
}

// rowHeaders sigue los nombres JSON de document.CanonicalRow.
var rowHeaders = []string{
	"invoiceId", "rowNumber", "surveyRecordId", "businessName", "description", "invoiceDate",
	"invoiceNumber", "packagingType", "packagingUnit", "packsSold", "unitsSold", "productCode",
	"saleValue", "totalInvoice", "totalInvoiceWithoutVAT", "valueIbuaAndOthers",
}

var failureHeaders = []string{"invoiceId", "tipoFacturaOcr", "error"}

func rowValues(r document.CanonicalRow) []any {
	return []any{
		r.InvoiceID, r.RowNumber, r.SurveyRecordID, r.BusinessName, r.Description, r.InvoiceDate,
		r.InvoiceNumber, r.PackagingType, r.PackagingUnit, r.PacksSold, r.UnitsSold, r.ProductCode,
		r.SaleValue, r.TotalInvoice, r.TotalInvoiceWithoutVAT, r.ValueIbuaAndOthers,
	}
}

// WriteXLSX escribe un libro con la hoja de filas canónicas y la de facturas fallidas.
// Los valores centinela se escriben tal cual.
func WriteXLSX(w io.Writer, rows []document.CanonicalRow, failures []Failure) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile trae "Sheet1"; se renombra para no dejar una hoja vacía.
	if err := f.SetSheetName("Sheet1", SheetRows); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := writeRow(f, SheetRows, 1, toAny(rowHeaders)); err != nil {
		return err
	}
	for i, r := range rows {
		if err := writeRow(f, SheetRows, i+2, rowValues(r)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetFailures); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := writeRow(f, SheetFailures, 1, toAny(failureHeaders)); err != nil {
		return err
	}
	for i, fl := range failures {
		if err := writeRow(f, SheetFailures, i+2, []any{fl.InvoiceID, fl.Label, fl.Message}); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetRows, "D", "E", 36)
	_ = f.SetColWidth(SheetFailures, "C", "C", 60)
	if idx, err := f.GetSheetIndex(SheetRows); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d de %s: %w", row, sheet, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
