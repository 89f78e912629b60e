// Package pricing computes price list results from resolved line costs and
// margin percentages. It has no side effects and no knowledge of storage.
//
// Every output is rounded to 4 decimal places with round-half-to-even,
// always from unrounded intermediates.
package pricing

import "github.com/shopspring/decimal"

// Decimales is the scale of every stored and reported amount.
const Decimales = 4

var (
	cien = decimal.NewFromInt(100)
	uno  = decimal.NewFromInt(1)
)

// Costo is the unit cost of a line: either resolved against an existing cost
// item or unresolved (dangling reference). Unresolved lines contribute zero.
type Costo struct {
	valor    decimal.Decimal
	resuelto bool
}

// Resuelto wraps the factory cost of an existing item. A NULL factory cost
// must be passed as zero.
func Resuelto(valor decimal.Decimal) Costo { return Costo{valor: valor, resuelto: true} }

// SinResolver marks a line whose cost item no longer exists.
func SinResolver() Costo { return Costo{} }

// Resuelto reports whether the line's cost item exists.
func (c Costo) Resuelto() bool { return c.resuelto }

// Unitario returns the unit cost used in totals (zero when unresolved).
func (c Costo) Unitario() decimal.Decimal {
	if !c.resuelto {
		return decimal.Zero
	}
	return c.valor
}

// Linea is one (unit cost, quantity) pair.
type Linea struct {
	Costo    Costo
	Cantidad decimal.Decimal
}

// Margenes holds whole-number percentages (15 = 15%).
type Margenes struct {
	Eventuales   decimal.Decimal
	Garantia     decimal.Decimal
	Burden       decimal.Decimal
	GPCliente    decimal.Decimal
	GPIntegrador decimal.Decimal
}

// Resultado is the rounded output of Calcular.
type Resultado struct {
	CostoDirecto     decimal.Decimal
	CostoTotal       decimal.Decimal
	PrecioCliente    decimal.Decimal
	PrecioIntegrador decimal.Decimal
}

// Calcular runs the price list formula:
//
//	directo     = Σ unit_i * qty_i
//	total       = directo * (1+ev/100) * (1+gar/100) * (1+burden/100)
//	cliente     = total / (1 - gp_cliente/100)     (0 if gp_cliente >= 100)
//	integrador  = total / (1 - gp_integrador/100)  (0 if gp_integrador >= 100)
func Calcular(lineas []Linea, m Margenes) Resultado {
	directo := decimal.Zero
	for _, l := range lineas {
		directo = directo.Add(l.Costo.Unitario().Mul(l.Cantidad))
	}

	total := directo.
		Mul(uno.Add(fraccion(m.Eventuales))).
		Mul(uno.Add(fraccion(m.Garantia))).
		Mul(uno.Add(fraccion(m.Burden)))

	return Resultado{
		CostoDirecto:     Redondear(directo),
		CostoTotal:       Redondear(total),
		PrecioCliente:    Redondear(conMargen(total, m.GPCliente)),
		PrecioIntegrador: Redondear(conMargen(total, m.GPIntegrador)),
	}
}

// TotalLinea is the rounded per-line amount shown in detail views.
func TotalLinea(l Linea) decimal.Decimal {
	return Redondear(l.Costo.Unitario().Mul(l.Cantidad))
}

// CostoFabricaBlue derives the factory cost of an imported electronic item:
// fob * coeficiente * (1 + blue/100), rounded.
func CostoFabricaBlue(fob, coeficiente, bluePct decimal.Decimal) decimal.Decimal {
	return Redondear(fob.Mul(coeficiente).Mul(uno.Add(fraccion(bluePct))))
}

// Redondear rounds half to even at Decimales places.
func Redondear(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Decimales)
}

func fraccion(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(cien)
}

// conMargen saturates to zero when the margin leaves no positive divisor.
func conMargen(total, gp decimal.Decimal) decimal.Decimal {
	if gp.GreaterThanOrEqual(cien) {
		return decimal.Zero
	}
	return total.Div(uno.Sub(fraccion(gp)))
}
