package document

import (
	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// IDs de empresa en los catálogos de productos y excluidos.
const (
	companyOtros    = 0
	companyCocaCola = 1
	companyPostobon = 2
	companyQuala    = 3
	companyKopps    = 4
	companyTolima   = 5
	companyAlpina   = 6
	companyGRPS     = 7
	companyAje      = 8
)

// cokeFamily cubre Coke, Femsa, Infocargue, Aje y Entrega Coke.
func cokeFamily(label string, companyID int) *VendorConfig {
	return &VendorConfig{
		Label:     label,
		CompanyID: companyID,
		Header: []ocr.FieldType{
			ocr.FechaFactura, ocr.NumeroFactura, ocr.RazonSocial, ocr.NitProveedor,
			ocr.TotalFactura, ocr.TotalFacturaSinIVA,
		},
		Detail: []ocr.FieldType{
			ocr.Descripcion, ocr.CodigoProducto, ocr.TipoEmbalaje, ocr.UnidadesEmbalaje,
			ocr.PacksVendidos, ocr.UnidadesVendidas, ocr.ValorUnitario, ocr.ValorVentaItem,
			ocr.ValorIbuaYOtros,
		},
		Numeric: []ocr.FieldType{
			ocr.TotalFactura, ocr.TotalFacturaSinIVA, ocr.UnidadesEmbalaje, ocr.PacksVendidos,
			ocr.UnidadesVendidas, ocr.ValorUnitario, ocr.ValorVentaItem, ocr.ValorIbuaYOtros,
		},
		Blacklist:          []ocr.FieldType{ocr.Firma, ocr.Sello, ocr.PlacaVehiculo},
		Denylist:           []string{"ENVASE", "CANASTA", "PLASTICO RETORNABLE"},
		ObsolescenceMonths: 2,
		RepairDates:        true,
		InferHeader:        true,
		InferPackaging:     true,
		Corroborate:        true,
		FlipReduccion:      true,
		Policy:             heuristics.RoundPolicy{Min: heuristics.DefaultRoundThreshold},
		RowCheck:           cokeRowCheck,
		Columns:            defaultColumns,
	}
}

// cokeRowCheck:
//
//	unidadesPorItem = unidades_embalaje / unidades_vendidas
//	valorUnidad     = valor_unitario / unidadesPorItem
//	esperado        = valorUnidad - valor_ibua_y_otros
func cokeRowCheck(r Row) (Consistency, bool) {
	observed, ok := observedLegible(r[ocr.ValorVentaItem])
	if !ok {
		return Consistency{}, false
	}
	unitsSold := r.Num(ocr.UnidadesVendidas)
	if unitsSold.IsZero() {
		return Consistency{}, false
	}
	unitsPerItem := r.Num(ocr.UnidadesEmbalaje).Div(unitsSold)
	if unitsPerItem.IsZero() {
		return Consistency{}, false
	}
	unitValue := r.Num(ocr.ValorUnitario).Div(unitsPerItem)
	return Consistency{
		Expected: unitValue.Sub(r.Num(ocr.ValorIbuaYOtros)),
		Observed: observed,
		Inputs: []*ocr.Field{
			r[ocr.UnidadesEmbalaje], r[ocr.UnidadesVendidas], r[ocr.ValorUnitario], r[ocr.ValorIbuaYOtros],
		},
	}, true
}
