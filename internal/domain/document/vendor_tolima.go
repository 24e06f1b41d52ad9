package document

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

func newTolima() *VendorConfig {
	cols := defaultColumns
	cols.PacksSold = ocr.Cajas
	return &VendorConfig{
		Label:     LabelTolima,
		CompanyID: companyTolima,
		Header: []ocr.FieldType{
			ocr.FechaFactura, ocr.NumeroFactura, ocr.RazonSocial, ocr.TotalFactura, ocr.TotalFacturaSinIVA,
		},
		Detail: []ocr.FieldType{
			ocr.Descripcion, ocr.CodigoProducto, ocr.TipoEmbalaje, ocr.Cajas, ocr.UnidadesEmbalaje,
			ocr.UnidadesVendidas, ocr.ValorUnitario, ocr.Descuento, ocr.ValorVentaItem,
		},
		Numeric: []ocr.FieldType{
			ocr.TotalFactura, ocr.TotalFacturaSinIVA, ocr.Cajas, ocr.UnidadesEmbalaje,
			ocr.UnidadesVendidas, ocr.ValorUnitario, ocr.Descuento, ocr.ValorVentaItem,
		},
		Blacklist:          []ocr.FieldType{ocr.Firma, ocr.Sello, ocr.PlacaVehiculo},
		Denylist:           []string{"ENVASE"},
		ObsolescenceMonths: 2,
		RepairDates:        true,
		InferHeader:        true,
		InferPackaging:     true,
		Corroborate:        true,
		Policy: heuristics.ThresholdPolicy{
			Thresholds: map[ocr.FieldType]float64{
				ocr.Cajas:          0.85,
				ocr.ValorUnitario:  0.85,
				ocr.ValorVentaItem: 0.85,
			},
		},
		RowCheck: tolimaRowCheck,
		Columns:  cols,
	}
}

// tolimaRowCheck:
//
//	cantidad = cajas                                  si cajas != 0
//	cantidad = unidades_embalaje / unidades_vendidas  si cajas == 0
//	esperado = valor_unitario * cantidad - descuento
func tolimaRowCheck(r Row) (Consistency, bool) {
	observed, ok := observedLegible(r[ocr.ValorVentaItem])
	if !ok {
		return Consistency{}, false
	}
	var quantity decimal.Decimal
	var qtyInputs []*ocr.Field
	if boxes := r.Num(ocr.Cajas); boxes.IsZero() {
		unitsSold := r.Num(ocr.UnidadesVendidas)
		if unitsSold.IsZero() {
			return Consistency{}, false
		}
		quantity = r.Num(ocr.UnidadesEmbalaje).Div(unitsSold)
		qtyInputs = []*ocr.Field{r[ocr.UnidadesEmbalaje], r[ocr.UnidadesVendidas]}
	} else {
		quantity = boxes
		qtyInputs = []*ocr.Field{r[ocr.Cajas]}
	}
	return Consistency{
		Expected: r.Num(ocr.ValorUnitario).Mul(quantity).Sub(r.Num(ocr.Descuento)),
		Observed: observed,
		Inputs:   append(qtyInputs, r[ocr.ValorUnitario], r[ocr.Descuento]),
	}, true
}
