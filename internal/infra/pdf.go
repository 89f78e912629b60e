package infra

// pdf.go: price list quote generation using go-pdf/fpdf.
// A4 portrait with:
//   - Company header and list code
//   - Product reference and creation date
//   - Line table (code, description, qty, unit cost, total)
//   - Margin parameters
//   - Direct/total cost and both sale prices

import (
	"fmt"
	"io"

	"costeodcm/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// EscribirListaPDF renders a single price list with its lines to w.
func EscribirListaPDF(w io.Writer, empresa string, lista *dto.ListaPrecioResponse) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Lista "+lista.Codigo, true)
	pdf.AddPage()

	// Core fonts are cp1252; accents in names need translation.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(empresa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(fmt.Sprintf("Lista de precios %s - %s", lista.Codigo, lista.Nombre)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if lista.ProductoCodigo != "" || lista.ProductoNombre != "" {
		pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Producto: %s %s", lista.ProductoCodigo, lista.ProductoNombre)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Creada: "+lista.CreadaEn.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Lines ────────────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.16, contentW * 0.40, contentW * 0.12, contentW * 0.16, contentW * 0.16}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Código", "Denominación", "Cant.", "Costo unit.", "Total"} {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(cols[i], 6, tr(h), "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range lista.Lineas {
		codigo := ""
		if l.Codigo != nil {
			codigo = *l.Codigo
		}
		denominacion := l.Denominacion
		if !l.Resuelto {
			denominacion = fmt.Sprintf("(ítem %d inexistente)", l.ItemID)
		}
		if len([]rune(denominacion)) > 48 {
			denominacion = string([]rune(denominacion)[:47]) + "..."
		}
		pdf.CellFormat(cols[0], 5, tr(codigo), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, tr(denominacion), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, l.Cantidad.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 5, moneda(l.CostoUnitario), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 5, moneda(l.Total), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Margins ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	margenes := []struct {
		label string
		valor decimal.Decimal
	}{
		{"Eventuales", lista.Eventuales},
		{"Garantía", lista.Garantia},
		{"Burden", lista.Burden},
		{"GP cliente", lista.GPCliente},
		{"GP integrador", lista.GPIntegrador},
	}
	for _, m := range margenes {
		pdf.CellFormat(contentW*0.7, 5, tr(m.label+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 5, m.valor.String()+" %", "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	totales := []struct {
		label string
		valor decimal.Decimal
		bold  bool
	}{
		{"Costo directo", lista.CostoDirecto, false},
		{"Costo total", lista.CostoTotal, false},
		{"Precio cliente", lista.PrecioCliente, true},
		{"Precio integrador", lista.PrecioIntegrador, true},
	}
	for _, t := range totales {
		style := ""
		if t.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(contentW*0.7, 6, t.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 6, moneda(t.valor), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

func moneda(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
