// Package memcatalog implementa los puertos de catálogo en memoria, con búsqueda difusa por
// distancia de Levenshtein. Lo usan el CLI (catálogo en un archivo JSON) y los tests.
package memcatalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/facturas-ocr/internal/domain/entity"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
	"github.com/jhoicas/facturas-ocr/internal/domain/repository"
)

var (
	_ repository.HistoricalResultRepository = (*Catalog)(nil)
	_ repository.ProductCatalogRepository   = (*Catalog)(nil)
	_ repository.ExcludedProductRepository  = (*Catalog)(nil)
)

// DefaultMaxDistance es la distancia de edición aceptada si New recibe 0.
const DefaultMaxDistance = 3

type product struct {
	entity.CatalogProduct
	key string
}

type excluded struct {
	entity.ExcludedProduct
	key string
}

type historical struct {
	entity.HistoricalResult
	key          string
	businessName string
}

// Catalog guarda productos, excluidos e histórico. Es seguro para uso concurrente.
type Catalog struct {
	mu         sync.RWMutex
	products   []product
	excluded   []excluded
	historical []historical
	nextID     int64

	maxDistance int
	params      *levenshtein.Params
}

// New crea un catálogo vacío. maxDistance <= 0 usa DefaultMaxDistance.
func New(maxDistance int) *Catalog {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	return &Catalog{
		maxDistance: maxDistance,
		params:      levenshtein.NewParams().MaxCost(maxDistance),
	}
}

// Catalogs devuelve el catálogo como los tres puertos del motor.
func (c *Catalog) Catalogs() repository.Catalogs {
	return repository.Catalogs{Historical: c, Products: c, Excluded: c}
}

// AddProduct agrega un producto al catálogo maestro.
func (c *Catalog) AddProduct(p entity.CatalogProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.ID == 0 {
		p.ID = c.id()
	}
	c.products = append(c.products, product{CatalogProduct: p, key: ocr.Fold(p.Description)})
}

// AddExcluded agrega un producto excluido.
func (c *Catalog) AddExcluded(e entity.ExcludedProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.ID == 0 {
		e.ID = c.id()
	}
	c.excluded = append(c.excluded, excluded{ExcludedProduct: e, key: ocr.Fold(e.Description)})
}

// AddHistorical agrega un resultado histórico.
func (c *Catalog) AddHistorical(h entity.HistoricalResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h.ID == 0 {
		h.ID = c.id()
	}
	c.historical = append(c.historical, historical{
		HistoricalResult: h,
		key:              ocr.Fold(h.Description),
		businessName:     ocr.Fold(h.BusinessName),
	})
}

// Snapshot devuelve una copia del contenido del catálogo, en orden de inserción.
func (c *Catalog) Snapshot() ([]entity.CatalogProduct, []entity.ExcludedProduct, []entity.HistoricalResult) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	products := make([]entity.CatalogProduct, len(c.products))
	for i, p := range c.products {
		products[i] = p.CatalogProduct
	}
	excl := make([]entity.ExcludedProduct, len(c.excluded))
	for i, e := range c.excluded {
		excl[i] = e.ExcludedProduct
	}
	hist := make([]entity.HistoricalResult, len(c.historical))
	for i, h := range c.historical {
		hist[i] = h.HistoricalResult
	}
	return products, excl, hist
}

func (c *Catalog) id() int64 {
	c.nextID++
	return c.nextID
}

// FindByDescriptionAndBusinessName devuelve el histórico más reciente con la misma razón
// social y descripción normalizada.
func (c *Catalog) FindByDescriptionAndBusinessName(_ context.Context, businessName, description string) (*entity.HistoricalResult, error) {
	name, key := ocr.Fold(businessName), ocr.Fold(description)
	c.mu.RLock()
	defer c.mu.RUnlock()
	var best *historical
	for i := range c.historical {
		h := &c.historical[i]
		if h.businessName != name || h.key != key {
			continue
		}
		if best == nil || h.InvoiceDate.After(best.InvoiceDate) {
			best = h
		}
	}
	if best == nil {
		return nil, nil
	}
	out := best.HistoricalResult
	return &out, nil
}

// FindProductByCode busca por código exacto.
func (c *Catalog) FindProductByCode(_ context.Context, code string) (*entity.CatalogProduct, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ProductCode == code {
			out := p.CatalogProduct
			return &out, nil
		}
	}
	return nil, nil
}

// FindProductByFuzzyDescription devuelve el producto de la empresa más cercano a la
// descripción, si su distancia no supera maxDistance. Empates: el primero agregado.
func (c *Catalog) FindProductByFuzzyDescription(_ context.Context, description string, companyID int) (*entity.CatalogProduct, error) {
	key := ocr.Fold(description)
	if key == "" {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	best, bestDist := -1, c.maxDistance+1
	for i, p := range c.products {
		if p.CompanyID != companyID {
			continue
		}
		if d := levenshtein.Distance(p.key, key, c.params); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nil, nil
	}
	out := c.products[best].CatalogProduct
	return &out, nil
}

// FindExcludedByFuzzyDescription devuelve el excluido de la empresa más cercano.
func (c *Catalog) FindExcludedByFuzzyDescription(_ context.Context, description string, companyID int) (*entity.ExcludedProduct, error) {
	key := ocr.Fold(description)
	if key == "" {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	best, bestDist := -1, c.maxDistance+1
	for i, e := range c.excluded {
		if e.CompanyID != companyID {
			continue
		}
		if d := levenshtein.Distance(e.key, key, c.params); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nil, nil
	}
	out := c.excluded[best].ExcludedProduct
	return &out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// carga desde JSON
// ──────────────────────────────────────────────────────────────────────────────

type fileProduct struct {
	CompanyID     int    `json:"companyId"`
	ProductCode   string `json:"productCode"`
	Description   string `json:"description"`
	PackagingType string `json:"packagingType"`
	PackagingUnit int    `json:"packagingUnit"`
}

type fileExcluded struct {
	CompanyID   int    `json:"companyId"`
	Description string `json:"description"`
}

type fileHistorical struct {
	BusinessName  string          `json:"businessName"`
	Description   string          `json:"description"`
	ProductCode   string          `json:"productCode"`
	PackagingType string          `json:"packagingType"`
	PackagingUnit int             `json:"packagingUnit"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	InvoiceDate   string          `json:"invoiceDate"` // yyyy-mm-dd
}

type file struct {
	Products   []fileProduct    `json:"products"`
	Excluded   []fileExcluded   `json:"excluded"`
	Historical []fileHistorical `json:"historical"`
}

// Load agrega al catálogo el contenido de un documento JSON con las listas
// "products", "excluded" y "historical".
func (c *Catalog) Load(r io.Reader) error {
	var f file
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("memcatalog: decode: %w", err)
	}
	for _, p := range f.Products {
		c.AddProduct(entity.CatalogProduct{
			CompanyID:     p.CompanyID,
			ProductCode:   strings.TrimSpace(p.ProductCode),
			Description:   p.Description,
			PackagingType: p.PackagingType,
			PackagingUnit: p.PackagingUnit,
		})
	}
	for _, e := range f.Excluded {
		c.AddExcluded(entity.ExcludedProduct{CompanyID: e.CompanyID, Description: e.Description})
	}
	for i, h := range f.Historical {
		date, err := time.Parse("2006-01-02", h.InvoiceDate)
		if err != nil {
			return fmt.Errorf("memcatalog: historical[%d].invoiceDate: %w", i, err)
		}
		c.AddHistorical(entity.HistoricalResult{
			BusinessName:  h.BusinessName,
			Description:   h.Description,
			ProductCode:   h.ProductCode,
			PackagingType: h.PackagingType,
			PackagingUnit: h.PackagingUnit,
			UnitPrice:     h.UnitPrice,
			InvoiceDate:   date,
		})
	}
	return nil
}

// LoadFile lee path y llama a Load. Los catálogos exportados desde sistemas antiguos suelen
// venir en ISO-8859-1: si el archivo no es UTF-8 válido se transcodifica antes de decodificar.
func LoadFile(path string, maxDistance int) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memcatalog: %w", err)
	}
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("memcatalog: transcodificar ISO-8859-1: %w", err)
		}
	}
	c := New(maxDistance)
	if err := c.Load(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return c, nil
}
