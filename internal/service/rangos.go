package service

import (
	"costeodcm/internal/pricing"

	"github.com/shopspring/decimal"
)

// rango is the NUMERIC(precision, escala) bound of a persisted column.
type rango struct {
	precision int32
	escala    int32
}

var (
	rangoMargen      = rango{precision: 7, escala: 2}
	rangoCantidad    = rango{precision: 14, escala: 4}
	rangoCosto       = rango{precision: 14, escala: 4}
	rangoCoeficiente = rango{precision: 10, escala: 4}
	rangoParametro   = rango{precision: 14, escala: 4}
	rangoResultado   = rango{precision: 16, escala: 4}
)

func (r rango) maximo() decimal.Decimal {
	return decimal.New(1, r.precision-r.escala)
}

// validarNumero rejects negatives, values that do not fit the column and
// values carrying more decimals than the column stores. Trailing zeros are
// not counted as decimals.
func validarNumero(campo string, d decimal.Decimal, r rango) error {
	if d.IsNegative() {
		return invalido("%s no puede ser negativo", campo)
	}
	if d.Cmp(r.maximo()) >= 0 {
		return invalido("%s debe ser menor que %s", campo, r.maximo().String())
	}
	if !d.Equal(d.Truncate(r.escala)) {
		return invalido("%s admite como máximo %d decimales", campo, r.escala)
	}
	return nil
}

func validarNumeroOpcional(campo string, d *decimal.Decimal, r rango) error {
	if d == nil {
		return nil
	}
	return validarNumero(campo, *d, r)
}

// validarCostos checks the three cost columns of an item.
func validarCostos(fabrica, fob, coeficiente *decimal.Decimal) error {
	if err := validarNumeroOpcional("costo_fabrica", fabrica, rangoCosto); err != nil {
		return err
	}
	if err := validarNumeroOpcional("costo_fob", fob, rangoCosto); err != nil {
		return err
	}
	return validarNumeroOpcional("coeficiente", coeficiente, rangoCoeficiente)
}

// validarDerivado checks a computed value against its column before it is
// written, so a derived overflow is reported as invalid input.
func validarDerivado(campo string, d decimal.Decimal, r rango) error {
	if d.Abs().Cmp(r.maximo()) >= 0 {
		return invalido("%s calculado (%s) excede el máximo admitido", campo, d.String())
	}
	return nil
}

func validarResultado(res pricing.Resultado) error {
	for _, c := range []struct {
		campo string
		valor decimal.Decimal
	}{
		{"costo_directo", res.CostoDirecto},
		{"costo_total", res.CostoTotal},
		{"precio_cliente", res.PrecioCliente},
		{"precio_integrador", res.PrecioIntegrador},
	} {
		if err := validarDerivado(c.campo, c.valor, rangoResultado); err != nil {
			return err
		}
	}
	return nil
}
