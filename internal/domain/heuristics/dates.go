// Package heuristics agrupa las reglas de reparación y validación de fechas OCR
// y las políticas de confianza aplicadas a los campos.
package heuristics

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// DateLayout es el formato canónico de fechas en las facturas (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// YearsBack y YearsAhead delimitan la ventana de años aceptados al reparar una fecha.
const (
	YearsBack  = 5
	YearsAhead = 1
)

// confusions son los dígitos que el OCR suele confundir entre sí, en orden de preferencia.
var confusions = map[byte][]byte{
	'8': {'0', '6', '9'},
	'9': {'0', '4'},
	'6': {'0', '8'},
	'5': {'6', '8'},
	'1': {'7', '4'},
	'7': {'1', '4'},
	'4': {'1', '9'},
	'3': {'8', '5'},
}

var (
	reDayFirst  = regexp.MustCompile(`^\s*(\d{1,2})[-/](\d{1,2})[-/](\d{4})\s*$`)
	reYearFirst = regexp.MustCompile(`^\s*(\d{4})[-/](\d{1,2})[-/](\d{1,2})\s*$`)
)

// ParseDate interpreta un texto dd/mm/yyyy estricto.
func ParseDate(text string) (time.Time, error) {
	return time.Parse(DateLayout, text)
}

// IsValidDate indica si el texto es una fecha dd/mm/yyyy válida en el calendario.
func IsValidDate(text string) bool {
	_, err := ParseDate(text)
	return err == nil
}

// ObsolescenceRule decide si una fecha de factura es demasiado antigua para procesarla.
type ObsolescenceRule func(text string, months int, now time.Time) bool

// HasMonthsPassed compara solo el número de mes, sin tener en cuenta el año:
// es obsoleta si |mes actual - mes de la factura| >= months.
// Una fecha no interpretable no se considera obsoleta.
func HasMonthsPassed(text string, months int, now time.Time) bool {
	d, err := ParseDate(text)
	if err != nil {
		return false
	}
	diff := int(now.Month()) - int(d.Month())
	if diff < 0 {
		diff = -diff
	}
	return diff >= months
}

// HasCalendarMonthsPassed cuenta los meses transcurridos entre la fecha y now,
// incluyendo el año. Fechas futuras no son obsoletas. Misma política ante fechas
// no interpretables que HasMonthsPassed.
func HasCalendarMonthsPassed(text string, months int, now time.Time) bool {
	d, err := ParseDate(text)
	if err != nil {
		return false
	}
	elapsed := (now.Year()-d.Year())*12 + int(now.Month()) - int(d.Month())
	if now.Day() < d.Day() {
		elapsed--
	}
	return elapsed >= months
}

// RepairYear devuelve el año dentro de [currentYear-5, currentYear+1]. Si candidate ya está
// en la ventana lo devuelve igual; si no, prueba sustituir un dígito por sus confusiones
// OCR y acepta la primera que caiga en la ventana. Sin éxito, devuelve currentYear.
func RepairYear(candidate, currentYear int) int {
	inWindow := func(y int) bool { return y >= currentYear-YearsBack && y <= currentYear+YearsAhead }
	if inWindow(candidate) {
		return candidate
	}
	if y, ok := substituteDigit(fmt.Sprintf("%04d", candidate), inWindow); ok {
		return y
	}
	return currentYear
}

// repairComponent repara mes o día fuera de [1,upper] con la misma tabla de confusiones.
func repairComponent(value, upper int) (int, bool) {
	valid := func(v int) bool { return v >= 1 && v <= upper }
	if valid(value) {
		return value, true
	}
	return substituteDigit(fmt.Sprintf("%02d", value), valid)
}

func substituteDigit(digits string, accept func(int) bool) (int, bool) {
	b := []byte(digits)
	for i := range b {
		orig := b[i]
		for _, alt := range confusions[orig] {
			b[i] = alt
			if n, err := strconv.Atoi(string(b)); err == nil && accept(n) {
				return n, true
			}
		}
		b[i] = orig
	}
	return 0, false
}

// RepairDate intenta convertir el texto del campo a dd/mm/yyyy reparando dígitos mal leídos.
// Acepta dd-mm-yyyy, dd/mm/yyyy y la forma invertida yyyy-mm-dd. Solo modifica el campo
// cuando la reparación produce una fecha válida; devuelve true si el campo quedó válido.
func RepairDate(f *ocr.Field, now time.Time) bool {
	if f == nil || f.Text == nil {
		return false
	}
	if IsValidDate(*f.Text) {
		return true
	}
	var day, month, year string
	if m := reDayFirst.FindStringSubmatch(*f.Text); m != nil {
		day, month, year = m[1], m[2], m[3]
	} else if m := reYearFirst.FindStringSubmatch(*f.Text); m != nil {
		year, month, day = m[1], m[2], m[3]
	} else {
		return false
	}
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)

	y = RepairYear(y, now.Year())
	mo, okMonth := repairComponent(mo, 12)
	d, okDay := repairComponent(d, 31)
	if !okMonth || !okDay {
		return false
	}
	candidate := fmt.Sprintf("%02d/%02d/%04d", d, mo, y)
	if !IsValidDate(candidate) {
		return false
	}
	f.SetText(candidate)
	return true
}
