package document

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

func newKopps() *VendorConfig {
	return &VendorConfig{
		Label:     LabelKopps,
		CompanyID: companyKopps,
		Header: []ocr.FieldType{
			ocr.FechaFactura, ocr.NumeroFactura, ocr.RazonSocial, ocr.NitProveedor,
			ocr.TotalFactura, ocr.TotalFacturaSinIVA,
		},
		Detail: []ocr.FieldType{
			ocr.Descripcion, ocr.CodigoProducto, ocr.TipoEmbalaje, ocr.UnidadesEmbalaje,
			ocr.PacksVendidos, ocr.ValorUnitario, ocr.Descuento, ocr.PorcentajeIVA,
			ocr.OtrosImpuestos, ocr.ValorVentaItem, ocr.ValorIbuaYOtros,
		},
		Numeric: []ocr.FieldType{
			ocr.TotalFactura, ocr.TotalFacturaSinIVA, ocr.UnidadesEmbalaje, ocr.PacksVendidos,
			ocr.ValorUnitario, ocr.Descuento, ocr.PorcentajeIVA, ocr.OtrosImpuestos,
			ocr.ValorVentaItem, ocr.ValorIbuaYOtros,
		},
		Blacklist:          []ocr.FieldType{ocr.Firma, ocr.Sello, ocr.Observaciones, ocr.DireccionEntrega},
		Denylist:           []string{"FLETE", "TRANSPORTE"},
		ObsolescenceMonths: 3,
		InferHeader:        true,
		InferPackaging:     true,
		Corroborate:        true,
		FlagMismatch:       true,
		Policy: heuristics.ThresholdPolicy{
			Thresholds: map[ocr.FieldType]float64{
				ocr.Descripcion:    0.70,
				ocr.PacksVendidos:  0.85,
				ocr.ValorUnitario:  0.85,
				ocr.ValorVentaItem: 0.85,
				ocr.TotalFactura:   0.90,
			},
		},
		RowCheck:       koppsRowCheck,
		DocumentChecks: []DocumentCheck{koppsTotalCheck, koppsSubtotalCheck},
		Columns:        defaultColumns,
	}
}

// koppsRowCheck:
//
//	resultado = packs_vendidos * valor_unitario
//	iva       = (resultado - descuento) * porcentaje_iva / 100
//	esperado  = resultado - descuento + otros_impuestos + iva
func koppsRowCheck(r Row) (Consistency, bool) {
	observed, ok := observedLegible(r[ocr.ValorVentaItem])
	if !ok {
		return Consistency{}, false
	}
	result := r.Num(ocr.PacksVendidos).Mul(r.Num(ocr.ValorUnitario))
	discount := r.Num(ocr.Descuento)
	vat := result.Sub(discount).Mul(r.Num(ocr.PorcentajeIVA)).Div(hundred)
	return Consistency{
		Expected: result.Sub(discount).Add(r.Num(ocr.OtrosImpuestos)).Add(vat),
		Observed: observed,
		Inputs: []*ocr.Field{
			r[ocr.PacksVendidos], r[ocr.ValorUnitario], r[ocr.Descuento],
			r[ocr.PorcentajeIVA], r[ocr.OtrosImpuestos],
		},
	}, true
}

// koppsTotalCheck concilia la suma de valor_venta_item contra total_factura.
func koppsTotalCheck(header Row, rows []Row) []Consistency {
	c, ok := sumCheck(header[ocr.TotalFactura], rows, func(r Row) (decimal.Decimal, []*ocr.Field) {
		return r.Num(ocr.ValorVentaItem), []*ocr.Field{r[ocr.ValorVentaItem]}
	})
	if !ok {
		return nil
	}
	return []Consistency{c}
}

// koppsSubtotalCheck concilia la suma de packs_vendidos*valor_unitario contra el total sin IVA.
func koppsSubtotalCheck(header Row, rows []Row) []Consistency {
	c, ok := sumCheck(header[ocr.TotalFacturaSinIVA], rows, func(r Row) (decimal.Decimal, []*ocr.Field) {
		return r.Num(ocr.PacksVendidos).Mul(r.Num(ocr.ValorUnitario)),
			[]*ocr.Field{r[ocr.PacksVendidos], r[ocr.ValorUnitario]}
	})
	if !ok {
		return nil
	}
	return []Consistency{c}
}
