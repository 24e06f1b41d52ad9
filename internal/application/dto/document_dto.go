package dto

import (
	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// ProcessDocumentResponse es el resultado de digitalizar una factura.
// Un documento inválido también responde 200: IsValid y Errors indican por qué.
type ProcessDocumentResponse struct {
	TraceID        string                  `json:"traceId"`
	TipoFacturaOcr string                  `json:"tipoFacturaOcr"`
	FacturaID      int64                   `json:"facturaId"`
	IsValid        bool                    `json:"isValid"`
	Errors         map[string]string       `json:"errors"`
	Data           *ocr.Payload            `json:"data"`
	Rows           []document.CanonicalRow `json:"rows"`
}

// BatchItemResponse es el resultado de una factura dentro de un lote.
type BatchItemResponse struct {
	FacturaID      int64                    `json:"facturaId"`
	TipoFacturaOcr string                   `json:"tipoFacturaOcr"`
	Error          string                   `json:"error,omitempty"`
	Result         *ProcessDocumentResponse `json:"result,omitempty"`
}

// BatchResponse es el resultado de un lote de facturas, en el orden recibido.
type BatchResponse struct {
	Processed int                 `json:"processed"`
	Failed    int                 `json:"failed"`
	Items     []BatchItemResponse `json:"items"`
}

// VendorsResponse lista los tipos de factura OCR soportados.
type VendorsResponse struct {
	Labels []string `json:"labels"`
}

// VendorResponse describe la configuración de un tipo de factura.
type VendorResponse struct {
	Label              string          `json:"label"`
	CompanyID          int             `json:"companyId"`
	Header             []ocr.FieldType `json:"header"`
	Detail             []ocr.FieldType `json:"detail"`
	Numeric            []ocr.FieldType `json:"numeric"`
	Blacklist          []ocr.FieldType `json:"blacklist"`
	Denylist           []string        `json:"denylist"`
	ObsolescenceMonths int             `json:"obsolescenceMonths"`
	RepairDates        bool            `json:"repairDates"`
	HasFormulas        bool            `json:"hasFormulas"`
	TrustsOCR          bool            `json:"trustsOcr"`
}

// NewVendorResponse construye la vista pública de un VendorConfig.
func NewVendorResponse(c *document.VendorConfig) VendorResponse {
	return VendorResponse{
		Label:              c.Label,
		CompanyID:          c.CompanyID,
		Header:             c.Header,
		Detail:             c.Detail,
		Numeric:            c.Numeric,
		Blacklist:          c.Blacklist,
		Denylist:           c.Denylist,
		ObsolescenceMonths: c.ObsolescenceMonths,
		RepairDates:        c.RepairDates,
		HasFormulas:        c.RowCheck != nil || len(c.DocumentChecks) > 0,
		TrustsOCR:          c.Policy == nil,
	}
}
