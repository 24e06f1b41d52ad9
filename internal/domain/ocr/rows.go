package ocr

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reNumericTail = regexp.MustCompile(`^-?\d+$`)

// GroupByRow agrupa los campos de detalle por fila, en orden ascendente de fila.
// Si algún campo no tiene fila o la fila no es positiva devuelve un resultado vacío:
// los llamadores lo interpretan como payload no agrupable.
func GroupByRow(fields []*Field) [][]*Field {
	byRow := make(map[int][]*Field)
	for _, f := range fields {
		if f == nil || f.Row == nil || *f.Row <= 0 {
			return [][]*Field{}
		}
		byRow[*f.Row] = append(byRow[*f.Row], f)
	}
	rows := make([]int, 0, len(byRow))
	for r := range byRow {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	groups := make([][]*Field, 0, len(rows))
	for _, r := range rows {
		groups = append(groups, byRow[r])
	}
	return groups
}

// ToFieldMap indexa un grupo por tipo de campo; ante duplicados gana el último.
func ToFieldMap(fields []*Field) map[FieldType]*Field {
	m := make(map[FieldType]*Field, len(fields))
	for _, f := range fields {
		if f != nil {
			m[f.Type] = f
		}
	}
	return m
}

// ToDecimal convierte el texto del campo a decimal; ausente o no numérico devuelve 0.
func ToDecimal(f *Field) decimal.Decimal {
	if f == nil || f.Text == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*f.Text))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToNumber es ToDecimal como float64.
func ToNumber(f *Field) float64 {
	return ToDecimal(f).InexactFloat64()
}

// IsNumericTail indica si el texto completo es un entero con signo opcional.
func IsNumericTail(text string) bool {
	return reNumericTail.MatchString(text)
}

// IsIllegible indica si el campo no aporta valor: ausente, vacío o ya marcado como ilegible.
func IsIllegible(f *Field) bool {
	if f == nil || f.Text == nil {
		return true
	}
	t := strings.TrimSpace(*f.Text)
	return t == "" || t == Illegible
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normaliza un texto para comparaciones: sin tildes, mayúsculas y espacios colapsados.
func Fold(text string) string {
	s, _, err := transform.String(foldChain, text)
	if err != nil {
		s = text
	}
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

var (
	reDotThousands   = regexp.MustCompile(`^-?\d{1,3}(\.\d{3}){2,}(,\d+)?$|^-?\d{1,3}(\.\d{3})+,\d+$`)
	reCommaThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
	reCommaDecimal   = regexp.MustCompile(`^-?\d+,\d+$`)
	reTrailingMinus  = regexp.MustCompile(`^(\d+(?:\.\d+)?)-$`)
)

// NormalizeNumber limpia un texto numérico del OCR: símbolos de moneda, espacios,
// separadores de miles y signo final. Textos ambiguos (p. ej. "12.000") se dejan igual.
// Es idempotente.
func NormalizeNumber(text string) string {
	s := strings.TrimSpace(text)
	if s == "" || s == Illegible {
		return s
	}
	s = strings.NewReplacer("$", "", " ", "", "\u00a0", "").Replace(s)
	if m := reTrailingMinus.FindStringSubmatch(s); m != nil {
		s = "-" + m[1]
	}
	switch {
	case reDotThousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case reCommaThousands.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case reCommaDecimal.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}
