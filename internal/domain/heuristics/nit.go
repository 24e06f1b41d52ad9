package heuristics

import (
	"fmt"
	"unicode"
)

// pesos para el cálculo del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN).
// Se aplican a los 9 primeros dígitos del NIT, de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// NITCheckDigit calcula el dígito de verificación (módulo 11) de los 9 primeros dígitos del NIT.
func NITCheckDigit(nit string) (byte, error) {
	digits := extractDigits(nit)
	if len(digits) < 9 {
		return 0, fmt.Errorf("nit: se requieren al menos 9 dígitos, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits[:9] {
		sum += int(d-'0') * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder), nil
	}
	return byte('0' + (11 - remainder)), nil
}

// IsValidNIT indica si el texto trae un NIT de 9 dígitos más su dígito de verificación
// correcto. Acepta "800197268-4", "800.197.268-4" o "8001972684". Otros caracteres que no
// sean dígitos, puntos, guiones o espacios lo invalidan.
func IsValidNIT(text string) bool {
	for _, r := range text {
		if !unicode.IsDigit(r) && r != '.' && r != '-' && r != ' ' {
			return false
		}
	}
	digits := extractDigits(text)
	if len(digits) != 10 {
		return false
	}
	expected, err := NITCheckDigit(string(digits[:9]))
	return err == nil && digits[9] == expected
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return out
}
