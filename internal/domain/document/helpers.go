package document

import (
	"strings"
	"time"

	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// invoiceNumberDigits es la cantidad de caracteres finales que identifican la factura.
const invoiceNumberDigits = 5

// reduccionLabel es la descripción de las filas de devolución o nota crédito.
const reduccionLabel = "REDUCCION"

// BusinessNameAliases traduce razones sociales leídas por el OCR a su forma canónica.
// La comparación es exacta sobre el texto sin espacios laterales.
var BusinessNameAliases = map[string]string{
	"Coca-Cola":                           "COCA COLA",
	"COCA-COLA":                           "COCA COLA",
	"Coca Cola":                           "COCA COLA",
	"COCA COLA":                           "COCA COLA",
	"COCA-COLA FEMSA":                     "COCA COLA FEMSA",
	"Coca-Cola FEMSA":                     "COCA COLA FEMSA",
	"COCA COLA FEMSA":                     "COCA COLA FEMSA",
	"INDUSTRIA NACIONAL DE GASEOSAS S.A.": "COCA COLA FEMSA",
	"POSTOBON S.A.":                       "POSTOBON",
	"POSTOBÓN S.A.":                       "POSTOBON",
	"Postobon":                            "POSTOBON",
	"POSTOBON":                            "POSTOBON",
	"GASEOSAS POSADA TOBON S.A.":          "POSTOBON",
	"QUALA S.A.":                          "QUALA",
	"Quala":                               "QUALA",
	"QUALA":                               "QUALA",
	"AJE COLOMBIA S.A.S.":                 "AJE",
	"AJE":                                 "AJE",
	"KOPPS COMERCIAL S.A.S.":              "KOPPS",
	"KOPPS":                               "KOPPS",
	"ALPINA PRODUCTOS ALIMENTICIOS S.A.":  "ALPINA",
	"ALPINA":                              "ALPINA",
	"GASEOSAS DEL TOLIMA":                 "TOLIMA",
	"TOLIMA":                              "TOLIMA",
}

// PackagingCodes son los tipos de embalaje válidos.
var PackagingCodes = map[string]struct{}{
	"UN": {}, "CJ": {}, "CAJA": {}, "PZA": {}, "BOT": {}, "ST": {}, "PQT": {},
	"PACA": {}, "SIX": {}, "FD": {}, "BLS": {}, "DSP": {}, "GAL": {}, "LATA": {},
	"KG": {}, "TRX": {},
}

// InferDate sube la confianza de la fecha si es dd/mm/yyyy válida, reparándola antes si repair.
func InferDate(f *ocr.Field, now time.Time, repair bool) {
	if f == nil || f.Text == nil {
		return
	}
	if repair {
		heuristics.RepairDate(f, now)
	}
	if heuristics.IsValidDate(*f.Text) {
		f.Upgrade()
	}
}

// InferInvoiceNumber toma los últimos 5 caracteres del número; si son solo dígitos el campo
// queda con esos dígitos y confianza 1.0. Un número de factura nunca lleva signo.
func InferInvoiceNumber(f *ocr.Field) {
	if ocr.IsIllegible(f) {
		return
	}
	text := []rune(strings.TrimSpace(f.Value()))
	if len(text) > invoiceNumberDigits {
		text = text[len(text)-invoiceNumberDigits:]
	}
	tail := string(text)
	if !strings.HasPrefix(tail, "-") && ocr.IsNumericTail(tail) {
		f.SetText(tail)
		f.Upgrade()
	}
}

// InferBusinessName reemplaza la razón social por su forma canónica si está en BusinessNameAliases.
func InferBusinessName(f *ocr.Field) {
	if ocr.IsIllegible(f) {
		return
	}
	if canonical, ok := BusinessNameAliases[strings.TrimSpace(f.Value())]; ok {
		f.SetText(canonical)
		f.Upgrade()
	}
}

// InferNIT sube la confianza del NIT del proveedor si su dígito de verificación cuadra.
func InferNIT(f *ocr.Field) {
	if ocr.IsIllegible(f) {
		return
	}
	if heuristics.IsValidNIT(f.Value()) {
		f.Upgrade()
	}
}

// InferPackagingType normaliza el tipo de embalaje y sube su confianza si es un código conocido.
func InferPackagingType(f *ocr.Field) {
	if ocr.IsIllegible(f) {
		return
	}
	code := strings.ToUpper(strings.TrimSpace(f.Value()))
	if _, ok := PackagingCodes[code]; ok {
		f.SetText(code)
		f.Upgrade()
	}
}

// IsReduccion indica si la fila es una devolución (descripción REDUCCION).
func IsReduccion(r Row) bool {
	f := r[ocr.Descripcion]
	if ocr.IsIllegible(f) {
		return false
	}
	return ocr.Fold(f.Value()) == reduccionLabel
}
