package infra

import (
	"fmt"
	"io"

	"costeodcm/internal/dto"

	"github.com/xuri/excelize/v2"
)

const hojaListas = "Listas de precios"

var columnasListas = []string{
	"Código", "Nombre", "Producto", "Producto nombre",
	"Eventuales %", "Garantía %", "Burden %", "GP cliente %", "GP integrador %",
	"Costo directo", "Costo total", "Precio cliente", "Precio integrador", "Creada",
}

// EscribirListasXLSX writes one row per price list to w as an .xlsx workbook.
func EscribirListasXLSX(w io.Writer, listas []dto.ListaPrecioResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(hojaListas)
	if err != nil {
		return fmt.Errorf("xlsx: new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range columnasListas {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaListas, cell, h); err != nil {
			return fmt.Errorf("xlsx: header: %w", err)
		}
	}

	for i, l := range listas {
		row := i + 2
		valores := []interface{}{
			l.Codigo, l.Nombre, l.ProductoCodigo, l.ProductoNombre,
			l.Eventuales.InexactFloat64(), l.Garantia.InexactFloat64(), l.Burden.InexactFloat64(),
			l.GPCliente.InexactFloat64(), l.GPIntegrador.InexactFloat64(),
			l.CostoDirecto.InexactFloat64(), l.CostoTotal.InexactFloat64(),
			l.PrecioCliente.InexactFloat64(), l.PrecioIntegrador.InexactFloat64(),
			l.CreadaEn.Format("02/01/2006"),
		}
		for col, v := range valores {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(hojaListas, cell, v); err != nil {
				return fmt.Errorf("xlsx: row %d: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
