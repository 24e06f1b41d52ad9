package document

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// packagingBox es el tipo de embalaje con el que Postobón factura por cajas (packs).
const packagingBox = "CAJA"

// postobonFamily cubre Postobón, Tiquete POS y Entrega Postobón. Las entregas comparten
// layout pero no traen precios confiables, por eso no corren fórmulas (withFormulas=false).
func postobonFamily(label string, withFormulas bool) *VendorConfig {
	cfg := &VendorConfig{
		Label:     label,
		CompanyID: companyPostobon,
		Header: []ocr.FieldType{
			ocr.FechaFactura, ocr.NumeroFactura, ocr.RazonSocial, ocr.NitProveedor,
			ocr.TotalFactura, ocr.TotalFacturaSinIVA,
		},
		Detail: []ocr.FieldType{
			ocr.Descripcion, ocr.CodigoProducto, ocr.TipoEmbalaje, ocr.UnidadesEmbalaje,
			ocr.PacksVendidos, ocr.UnidadesVendidas, ocr.ValorUnitario, ocr.Descuento,
			ocr.PorcentajeIVA, ocr.ValorVentaItem, ocr.ValorIbuaYOtros,
		},
		Numeric: []ocr.FieldType{
			ocr.TotalFactura, ocr.TotalFacturaSinIVA, ocr.UnidadesEmbalaje, ocr.PacksVendidos,
			ocr.UnidadesVendidas, ocr.ValorUnitario, ocr.Descuento, ocr.PorcentajeIVA,
			ocr.ValorVentaItem, ocr.ValorIbuaYOtros,
		},
		Blacklist:          []ocr.FieldType{ocr.Firma, ocr.Sello, ocr.DireccionEntrega},
		Denylist:           []string{"ENVASE", "CANASTA", "DEPOSITO"},
		ObsolescenceMonths: 3,
		RepairDates:        true,
		InferHeader:        true,
		InferPackaging:     true,
		Corroborate:        true,
		Policy:             heuristics.RoundPolicy{Min: heuristics.DefaultRoundThreshold},
		Columns:            defaultColumns,
	}
	if withFormulas {
		cfg.RowCheck = postobonRowCheck
		cfg.DocumentChecks = []DocumentCheck{postobonSubtotalCheck}
	}
	return cfg
}

// postobonQuantity usa packs_vendidos si el embalaje es CAJA y unidades_vendidas si no.
func postobonQuantity(r Row) *ocr.Field {
	if ocr.Fold(r[ocr.TipoEmbalaje].Value()) == packagingBox {
		return r[ocr.PacksVendidos]
	}
	return r[ocr.UnidadesVendidas]
}

// postobonBase = cantidad * valor_unitario
func postobonBase(r Row) (decimal.Decimal, []*ocr.Field) {
	qty := postobonQuantity(r)
	return ocr.ToDecimal(qty).Mul(r.Num(ocr.ValorUnitario)), []*ocr.Field{qty, r[ocr.ValorUnitario]}
}

// postobonRowCheck:
//
//	base       = cantidad * valor_unitario
//	conDesc    = base - descuento
//	iva        = conDesc * porcentaje_iva / 100
//	esperado   = conDesc + iva
func postobonRowCheck(r Row) (Consistency, bool) {
	observed, ok := observedLegible(r[ocr.ValorVentaItem])
	if !ok {
		return Consistency{}, false
	}
	base, inputs := postobonBase(r)
	afterDiscount := base.Sub(r.Num(ocr.Descuento))
	vat := afterDiscount.Mul(r.Num(ocr.PorcentajeIVA).Div(hundred))
	return Consistency{
		Expected: afterDiscount.Add(vat),
		Observed: observed,
		Inputs:   append(inputs, r[ocr.Descuento], r[ocr.PorcentajeIVA]),
	}, true
}

// postobonSubtotalCheck compara la suma de las bases contra el total sin IVA del encabezado.
func postobonSubtotalCheck(header Row, rows []Row) []Consistency {
	c, ok := sumCheck(header[ocr.TotalFacturaSinIVA], rows, postobonBase)
	if !ok {
		return nil
	}
	return []Consistency{c}
}
