package document

import (
	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

func newQuala() *VendorConfig {
	return &VendorConfig{
		Label:     LabelQuala,
		CompanyID: companyQuala,
		Header: []ocr.FieldType{
			ocr.FechaFactura, ocr.NumeroFactura, ocr.RazonSocial, ocr.NitProveedor,
			ocr.TotalFactura, ocr.TotalFacturaSinIVA,
		},
		Detail: []ocr.FieldType{
			ocr.Descripcion, ocr.CodigoProducto, ocr.TipoEmbalaje, ocr.UnidadesEmbalaje,
			ocr.UnidadesVendidas, ocr.ValorUnitario, ocr.PorcentajeIVA, ocr.PorcentajeICUI,
			ocr.OtrosImpuestos, ocr.ImpuestoIbua, ocr.ValorVentaItem,
		},
		Numeric: []ocr.FieldType{
			ocr.TotalFactura, ocr.TotalFacturaSinIVA, ocr.UnidadesEmbalaje, ocr.UnidadesVendidas,
			ocr.ValorUnitario, ocr.PorcentajeIVA, ocr.PorcentajeICUI, ocr.OtrosImpuestos,
			ocr.ImpuestoIbua, ocr.ValorVentaItem,
		},
		Blacklist:          []ocr.FieldType{ocr.Firma, ocr.Sello, ocr.Observaciones},
		Denylist:           []string{"OBSEQUIO", "BONIFICACION", "MATERIAL POP"},
		ObsolescenceMonths: 2,
		RepairDates:        true,
		InferHeader:        true,
		InferPackaging:     true,
		Corroborate:        true,
		FlagMismatch:       true,
		Policy: heuristics.ThresholdPolicy{
			Thresholds: map[ocr.FieldType]float64{
				ocr.Descripcion:      0.70,
				ocr.UnidadesVendidas: 0.80,
				ocr.ValorUnitario:    0.85,
				ocr.PorcentajeIVA:    0.80,
				ocr.ImpuestoIbua:     0.80,
				ocr.ValorVentaItem:   0.85,
				ocr.FechaFactura:     0.90,
				ocr.NumeroFactura:    0.90,
			},
		},
		RowCheck: qualaRowCheck,
		Columns: ColumnMap{
			BusinessName:           ocr.RazonSocial,
			InvoiceDate:            ocr.FechaFactura,
			InvoiceNumber:          ocr.NumeroFactura,
			TotalInvoice:           ocr.TotalFactura,
			TotalInvoiceWithoutVAT: ocr.TotalFacturaSinIVA,
			Description:            ocr.Descripcion,
			PackagingType:          ocr.TipoEmbalaje,
			PackagingUnit:          ocr.UnidadesEmbalaje,
			UnitsSold:              ocr.UnidadesVendidas,
			ProductCode:            ocr.CodigoProducto,
			SaleValue:              ocr.ValorVentaItem,
			ValueIbuaAndOthers:     ocr.ImpuestoIbua,
		},
	}
}

// qualaBlank indica una fila sin impuestos ni valor de venta: porcentaje_iva, impuesto_ibua
// y valor_venta_item vacíos. Esas filas no pasan por la fórmula.
func qualaBlank(r Row) bool {
	return ocr.IsIllegible(r[ocr.PorcentajeIVA]) &&
		ocr.IsIllegible(r[ocr.ImpuestoIbua]) &&
		ocr.IsIllegible(r[ocr.ValorVentaItem])
}

// qualaRowCheck:
//
//	base     = valor_unitario * unidades_vendidas
//	esperado = base + base*iva/100 + otros_impuestos + base*icui/100 + impuesto_ibua
func qualaRowCheck(r Row) (Consistency, bool) {
	if qualaBlank(r) {
		return Consistency{
			Force:  true,
			Inputs: []*ocr.Field{r[ocr.PorcentajeIVA], r[ocr.ImpuestoIbua], r[ocr.ValorVentaItem]},
		}, true
	}
	observed, ok := observedLegible(r[ocr.ValorVentaItem])
	if !ok {
		return Consistency{}, false
	}
	base := r.Num(ocr.ValorUnitario).Mul(r.Num(ocr.UnidadesVendidas))
	vat := base.Mul(r.Num(ocr.PorcentajeIVA)).Div(hundred)
	icui := base.Mul(r.Num(ocr.PorcentajeICUI)).Div(hundred)
	expected := base.Add(vat).Add(r.Num(ocr.OtrosImpuestos)).Add(icui).Add(r.Num(ocr.ImpuestoIbua))
	return Consistency{
		Expected: expected,
		Observed: observed,
		Inputs: []*ocr.Field{
			r[ocr.ValorUnitario], r[ocr.UnidadesVendidas], r[ocr.PorcentajeIVA],
			r[ocr.OtrosImpuestos], r[ocr.PorcentajeICUI], r[ocr.ImpuestoIbua],
		},
	}, true
}
