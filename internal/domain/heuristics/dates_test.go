package heuristics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturas-ocr/internal/domain/heuristics"
	"github.com/jhoicas/facturas-ocr/internal/domain/ocr"
)

// now fijo para que los tests no dependan del reloj.
var now = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

func TestIsValidDate(t *testing.T) {
	assert.True(t, heuristics.IsValidDate("24/10/2025"))
	assert.False(t, heuristics.IsValidDate("31/02/2025"), "el calendario debe ser válido")
	assert.False(t, heuristics.IsValidDate("2025-10-24"))
	assert.False(t, heuristics.IsValidDate(""))
	assert.False(t, heuristics.IsValidDate("24/10/25"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Obsolescencia: la regla por defecto compara solo el mes e ignora el año.
// ──────────────────────────────────────────────────────────────────────────────

func TestHasMonthsPassed_ComparaSoloMes(t *testing.T) {
	assert.False(t, heuristics.HasMonthsPassed("01/10/2026", 2, now))
	assert.False(t, heuristics.HasMonthsPassed("01/09/2026", 2, now))
	assert.True(t, heuristics.HasMonthsPassed("01/08/2026", 2, now))
	assert.True(t, heuristics.HasMonthsPassed("01/12/2026", 2, now), "también en sentido futuro")

	// Mismo mes de hace tres años: no es obsoleta porque el año no cuenta.
	assert.False(t, heuristics.HasMonthsPassed("15/10/2023", 2, now))
	// Diciembre del año pasado vs octubre: diferencia absoluta 2.
	assert.True(t, heuristics.HasMonthsPassed("20/12/2025", 2, now))
}

func TestHasMonthsPassed_FechaInvalidaNoBloquea(t *testing.T) {
	assert.False(t, heuristics.HasMonthsPassed("no es fecha", 2, now))
	assert.False(t, heuristics.HasMonthsPassed("", 3, now))
}

func TestHasCalendarMonthsPassed(t *testing.T) {
	assert.True(t, heuristics.HasCalendarMonthsPassed("15/10/2023", 2, now))
	assert.False(t, heuristics.HasCalendarMonthsPassed("20/09/2026", 2, now))
	assert.True(t, heuristics.HasCalendarMonthsPassed("17/08/2026", 2, now))
	assert.False(t, heuristics.HasCalendarMonthsPassed("18/08/2026", 2, now))
	assert.False(t, heuristics.HasCalendarMonthsPassed("01/01/2027", 2, now))
	assert.False(t, heuristics.HasCalendarMonthsPassed("basura", 2, now))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reparación de año y fecha
// ──────────────────────────────────────────────────────────────────────────────

func TestRepairYear(t *testing.T) {
	assert.Equal(t, 2025, heuristics.RepairYear(2025, 2026), "año en ventana no cambia")
	assert.Equal(t, 2021, heuristics.RepairYear(2021, 2026))
	assert.Equal(t, 2027, heuristics.RepairYear(2027, 2026))
	assert.Equal(t, 2025, heuristics.RepairYear(2825, 2026))
	assert.Equal(t, 2024, heuristics.RepairYear(2924, 2026))
	assert.Equal(t, 2026, heuristics.RepairYear(7026, 2026), "ninguna sustitución cae en la ventana")
	assert.Equal(t, 2026, heuristics.RepairYear(1111, 2026), "sin sustitución válida cae al año actual")
}

func TestRepairYear_SiempreDentroDeVentana(t *testing.T) {
	for y := 0; y <= 9999; y += 7 {
		got := heuristics.RepairYear(y, now.Year())
		require.GreaterOrEqual(t, got, now.Year()-heuristics.YearsBack, "año %04d", y)
		require.LessOrEqual(t, got, now.Year()+heuristics.YearsAhead, "año %04d", y)
	}
}

func TestRepairYear_UnDigitoConfundido(t *testing.T) {
	// Años de la ventana con un dígito cambiado por una confusión conocida vuelven a la ventana.
	for _, tc := range []struct{ in, want int }{
		{2625, 2025}, // 6 -> 0
		{2925, 2025}, // 9 -> 0
		{2023, 2023},
		{2028, 2026}, // 8 -> 0 da 2020, fuera; 8 -> 6 sí
	} {
		t.Run(fmt.Sprint(tc.in), func(t *testing.T) {
			assert.Equal(t, tc.want, heuristics.RepairYear(tc.in, 2026))
		})
	}
}

func TestRepairDate_FormaInvertidaCorrupta(t *testing.T) {
	f := ocr.NewField(ocr.FechaFactura, "2825-18-24", 0.4, 0)

	ok := heuristics.RepairDate(f, now)

	require.True(t, ok)
	assert.Equal(t, "24/10/2025", f.Value())
	assert.True(t, heuristics.IsValidDate(f.Value()))
	d, err := heuristics.ParseDate(f.Value())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d.Year(), now.Year()-5)
	assert.LessOrEqual(t, d.Year(), now.Year()+1)
}

func TestRepairDate_Casos(t *testing.T) {
	casos := []struct {
		in, want string
		ok       bool
	}{
		{"24/10/2025", "24/10/2025", true},
		{"24-10-2025", "24/10/2025", true},
		{"2025/10/24", "24/10/2025", true},
		{"5-3-2925", "05/03/2025", true},
		{"24/10/2825", "24/10/2825", true},
		{"FACTURA", "FACTURA", false},
		{"31-02-2025", "31-02-2025", false},
	}
	for _, c := range casos {
		t.Run(c.in, func(t *testing.T) {
			f := ocr.NewField(ocr.FechaFactura, c.in, 0.5, 0)
			assert.Equal(t, c.ok, heuristics.RepairDate(f, now))
			assert.Equal(t, c.want, f.Value())
		})
	}
}

func TestRepairDate_CampoSinTexto(t *testing.T) {
	assert.False(t, heuristics.RepairDate(nil, now))
	assert.False(t, heuristics.RepairDate(&ocr.Field{Type: ocr.FechaFactura}, now))
}
