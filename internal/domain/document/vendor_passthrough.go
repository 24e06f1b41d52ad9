package document

import "github.com/jhoicas/facturas-ocr/internal/domain/ocr"

// passThrough cubre Alpina, Distribuidor GRPS y otros proveedores: la confianza del OCR se
// respeta tal cual; solo se normaliza, valida la fecha, excluye, poda y formatea.
func passThrough(label string, companyID int) *VendorConfig {
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
		Blacklist:          []ocr.FieldType{ocr.Firma, ocr.Sello},
		ObsolescenceMonths: 3,
		Columns:            defaultColumns,
	}
}
