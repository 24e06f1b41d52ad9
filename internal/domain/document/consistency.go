package document

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

var hundred = decimal.NewFromInt(100)

// Row es un producto: los campos de detalle de una misma fila indexados por tipo.
type Row map[ocr.FieldType]*ocr.Field

// Num devuelve el valor numérico del campo (0 si falta o no es numérico).
func (r Row) Num(t ocr.FieldType) decimal.Decimal {
	return ocr.ToDecimal(r[t])
}

// Consistency es el resultado de una fórmula: el valor esperado frente al campo observado
// y los campos que alimentaron el cálculo. Force sube Inputs sin comparar.
type Consistency struct {
	Expected decimal.Decimal
	Observed *ocr.Field
	Inputs   []*ocr.Field
	Force    bool
}

// RowCheck calcula la consistencia aritmética de una fila. ok=false si la fórmula no aplica
// (falta el valor observado o habría una división por cero).
type RowCheck func(r Row) (c Consistency, ok bool)

// DocumentCheck concilia el encabezado con el conjunto de filas.
type DocumentCheck func(header Row, rows []Row) []Consistency

// apply sube la confianza de todos los campos involucrados si la consistencia se cumple
// dentro de Tolerance. Devuelve si se cumplió.
func (c Consistency) apply(flag bool) bool {
	if c.Force {
		for _, f := range c.Inputs {
			f.Upgrade()
		}
		return true
	}
	if c.Observed == nil {
		return false
	}
	observed := ocr.ToDecimal(c.Observed)
	if c.Expected.Sub(observed).Abs().LessThanOrEqual(decimal.NewFromInt(Tolerance)) {
		for _, f := range c.Inputs {
			f.Upgrade()
		}
		c.Observed.Upgrade()
		return true
	}
	if flag {
		c.Observed.SetError(fmt.Sprintf("valor no cuadra: esperado %s, leído %s",
			c.Expected.Round(2).String(), observed.String()))
	}
	return false
}

// observedLegible devuelve el campo si tiene un valor utilizable.
func observedLegible(f *ocr.Field) (*ocr.Field, bool) {
	if ocr.IsIllegible(f) {
		return nil, false
	}
	return f, true
}

// sumCheck compara la suma de un término por fila contra un campo del encabezado.
func sumCheck(observed *ocr.Field, rows []Row, term func(Row) (decimal.Decimal, []*ocr.Field)) (Consistency, bool) {
	obs, ok := observedLegible(observed)
	if !ok || len(rows) == 0 {
		return Consistency{}, false
	}
	total := decimal.Zero
	var inputs []*ocr.Field
	for _, r := range rows {
		v, fields := term(r)
		total = total.Add(v)
		inputs = append(inputs, fields...)
	}
	return Consistency{Expected: total, Observed: obs, Inputs: inputs}, true
}
