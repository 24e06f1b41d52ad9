package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoricalResult es una fila canónica ya digitalizada y revisada en facturas anteriores.
// Se usa para corroborar descripciones de productos por proveedor.
type HistoricalResult struct {
	ID            int64
	BusinessName  string
	Description   string
	ProductCode   string
	PackagingType string
	PackagingUnit int
	UnitPrice     decimal.Decimal
	InvoiceDate   time.Time
}

// CatalogProduct representa un producto del catálogo maestro de un proveedor (empresa).
type CatalogProduct struct {
	ID            int64
	CompanyID     int
	ProductCode   string
	Description   string
	PackagingType string
	PackagingUnit int
}

// ExcludedProduct es un producto que nunca debe llegar a la salida (envases, canastas, etc.).
type ExcludedProduct struct {
	ID          int64
	CompanyID   int
	Description string
}
