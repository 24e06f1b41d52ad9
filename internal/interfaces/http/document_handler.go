package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-ocr/internal/application/digitize"
	"github.com/jhoicas/facturas-ocr/internal/application/dto"
	"github.com/jhoicas/facturas-ocr/internal/domain"
	"github.com/jhoicas/facturas-ocr/internal/domain/document"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
	"github.com/jhoicas/facturas-ocr/internal/infrastructure/export"
)

// MaxBatchSize es el máximo de facturas aceptadas en un lote HTTP.
const MaxBatchSize = 500

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DocumentHandler expone el motor de digitalización de facturas OCR (protegido).
type DocumentHandler struct {
	uc    *digitize.UseCase
	batch *digitize.BatchProcessor
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *digitize.UseCase, batch *digitize.BatchProcessor) *DocumentHandler {
	return &DocumentHandler{uc: uc, batch: batch}
}

// Process godoc
// @Summary      Digitalizar factura OCR
// @Description  Normaliza, valida, infiere confianza, excluye y poda la factura; devuelve filas canónicas.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  ocr.Payload  true  "Factura OCR"
// @Success      200   {object}  dto.ProcessDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/documents/process [post]
func (h *DocumentHandler) Process(c *fiber.Ctx) error {
	var in ocr.Payload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Process(c.UserContext(), &in)
	if err != nil {
		status, body := errorResponse(err)
		return c.Status(status).JSON(body)
	}
	return c.JSON(toProcessResponse(out))
}

// ProcessBatch godoc
// @Summary      Digitalizar lote de facturas OCR
// @Description  Procesa las facturas en paralelo. Con ?format=xlsx responde el libro de filas y errores.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body    body   []ocr.Payload  true   "Facturas OCR"
// @Param        format  query  string         false  "json (por defecto) o xlsx"
// @Success      200     {object}  dto.BatchResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/documents/batch [post]
func (h *DocumentHandler) ProcessBatch(c *fiber.Ctx) error {
	var in []*ocr.Payload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote está vacío"})
	}
	if len(in) > MaxBatchSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: fmt.Sprintf("el lote supera el máximo de %d facturas", MaxBatchSize),
		})
	}
	format := c.Query("format", "json")
	if format != "json" && format != "xlsx" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser json o xlsx"})
	}

	res, err := h.batch.Run(c.UserContext(), in)
	if err != nil {
		status, body := errorResponse(err)
		return c.Status(status).JSON(body)
	}

	if format == "xlsx" {
		rows, failures := res.Split()
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, rows, exportFailures(failures)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="facturas-%s.xlsx"`, time.Now().Format("20060102-150405")))
		return c.Send(buf.Bytes())
	}

	out := dto.BatchResponse{Items: make([]dto.BatchItemResponse, 0, len(res.Items))}
	for _, it := range res.Items {
		item := dto.BatchItemResponse{}
		if it.Payload != nil {
			item.FacturaID, item.TipoFacturaOcr = it.Payload.FacturaID, it.Payload.TipoFacturaOcr
		}
		if it.Err != nil {
			item.Error = it.Err.Error()
			out.Failed++
		} else {
			r := toProcessResponse(it.Outcome)
			item.Result = &r
			out.Processed++
		}
		out.Items = append(out.Items, item)
	}
	return c.JSON(out)
}

// ListVendors godoc
// @Summary      Tipos de factura OCR soportados
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VendorsResponse
// @Router       /api/documents/vendors [get]
func (h *DocumentHandler) ListVendors(c *fiber.Ctx) error {
	return c.JSON(dto.VendorsResponse{Labels: document.Labels()})
}

// GetVendor godoc
// @Summary      Configuración de un tipo de factura OCR
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        label  path  string  true  "Tipo de factura (p.ej. POSTOBON)"
// @Success      200    {object}  dto.VendorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/documents/vendors/{label} [get]
func (h *DocumentHandler) GetVendor(c *fiber.Ctx) error {
	cfg, err := document.Config(c.Params("label"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tipo de factura no soportado"})
	}
	return c.JSON(dto.NewVendorResponse(cfg))
}

// errorResponse traduce los errores del caso de uso a HTTP.
func errorResponse(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrUnknownVendor):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "UNKNOWN_VENDOR", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidPayload):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "CANCELED", Message: "la solicitud fue cancelada"}
	default:
		// Errores de catálogos: el mismo payload puede reintentarse más tarde.
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "CATALOG_UNAVAILABLE", Message: err.Error()}
	}
}

func toProcessResponse(out *digitize.Outcome) dto.ProcessDocumentResponse {
	rows := out.Rows
	if rows == nil {
		rows = []document.CanonicalRow{}
	}
	return dto.ProcessDocumentResponse{
		TraceID:        out.TraceID,
		TipoFacturaOcr: out.Label,
		FacturaID:      out.FacturaID,
		IsValid:        out.Result.IsValid,
		Errors:         out.Result.Errors,
		Data:           out.Result.Data,
		Rows:           rows,
	}
}

func exportFailures(in []digitize.Failure) []export.Failure {
	out := make([]export.Failure, 0, len(in))
	for _, f := range in {
		out = append(out, export.Failure{InvoiceID: f.FacturaID, Label: f.Label, Message: f.Message})
	}
	return out
}
