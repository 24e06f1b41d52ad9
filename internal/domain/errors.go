package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidPayload  = errors.New("payload OCR inválido")
	ErrUnknownVendor   = errors.New("tipo de factura OCR no soportado")
	ErrNotProcessed    = errors.New("el documento no ha sido procesado")
	ErrUngroupableRows = errors.New("los detalles no se pueden agrupar por fila")
)
