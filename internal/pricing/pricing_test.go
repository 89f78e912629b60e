package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestCalcular_ReferenceValues(t *testing.T) {
	res := Calcular(
		[]Linea{{Costo: Resuelto(d("100")), Cantidad: d("2")}},
		Margenes{
			Eventuales:   d("10"),
			Garantia:     d("5"),
			Burden:       d("0"),
			GPCliente:    d("20"),
			GPIntegrador: d("30"),
		},
	)

	assertDecimal(t, "200", res.CostoDirecto)
	assertDecimal(t, "231", res.CostoTotal)
	assertDecimal(t, "288.75", res.PrecioCliente)
	assertDecimal(t, "330", res.PrecioIntegrador)
}

func TestCalcular_MargenCienSatura(t *testing.T) {
	lineas := []Linea{{Costo: Resuelto(d("50")), Cantidad: d("1")}}

	res := Calcular(lineas, Margenes{GPCliente: d("100"), GPIntegrador: d("150")})

	assertDecimal(t, "50", res.CostoTotal)
	assert.True(t, res.PrecioCliente.IsZero())
	assert.True(t, res.PrecioIntegrador.IsZero())
}

func TestCalcular_SinLineas(t *testing.T) {
	res := Calcular(nil, Margenes{Eventuales: d("10"), GPCliente: d("20")})

	assert.True(t, res.CostoDirecto.IsZero())
	assert.True(t, res.CostoTotal.IsZero())
	assert.True(t, res.PrecioCliente.IsZero())
}

func TestCalcular_LineaSinResolverAportaCero(t *testing.T) {
	lineas := []Linea{
		{Costo: Resuelto(d("10")), Cantidad: d("3")},
		{Costo: SinResolver(), Cantidad: d("1000")},
	}

	res := Calcular(lineas, Margenes{})

	assertDecimal(t, "30", res.CostoDirecto)
	assert.False(t, lineas[1].Costo.Resuelto())
	assert.True(t, TotalLinea(lineas[1]).IsZero())
}

func TestCalcular_RedondeoDesdeIntermediosSinRedondear(t *testing.T) {
	// 1/3 per unit * 3 units: rounding each line first would give 0.9999.
	lineas := []Linea{{Costo: Resuelto(d("1").Div(d("3"))), Cantidad: d("3")}}

	res := Calcular(lineas, Margenes{})

	assertDecimal(t, "1", res.CostoDirecto)
}

func TestRedondear_HalfToEven(t *testing.T) {
	assertDecimal(t, "0.1234", Redondear(d("0.12345")))
	assertDecimal(t, "0.1236", Redondear(d("0.12355")))
	assertDecimal(t, "2.5", Redondear(d("2.50004")))
}

func TestTotalLinea(t *testing.T) {
	l := Linea{Costo: Resuelto(d("12.34567")), Cantidad: d("2")}
	assertDecimal(t, "24.6913", TotalLinea(l))
}

func TestCostoFabricaBlue(t *testing.T) {
	tests := []struct {
		name                 string
		fob, coef, blue, exp string
	}{
		{"blue cero", "100", "1.5", "0", "150"},
		{"blue diez", "100", "1.5", "10", "165"},
		{"fraccionario", "33.3333", "1.2", "7.5", "43.0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.exp, CostoFabricaBlue(d(tt.fob), d(tt.coef), d(tt.blue)))
		})
	}
}
