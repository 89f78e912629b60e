package service

import (
	"costeodcm/internal/dto"
	"costeodcm/internal/model"
	"costeodcm/internal/pricing"

	"github.com/shopspring/decimal"
)

func costoItemToDTO(c *model.CostoItem) dto.CostoItemResponse {
	return dto.CostoItemResponse{
		ID:           c.ID,
		Tipo:         c.Tipo,
		Subtipo:      c.Subtipo,
		Variante:     c.Variante,
		Item:         c.Item,
		Codigo:       c.Codigo,
		Denominacion: c.Denominacion,
		Unidad:       c.Unidad,
		CostoFabrica: c.CostoFabrica,
		CostoFOB:     c.CostoFOB,
		Coeficiente:  c.Coeficiente,
		UpdatedAt:    c.UpdatedAt,
	}
}

func historialToDTO(h *model.CostoHistorial) dto.CostoHistorialResponse {
	return dto.CostoHistorialResponse{
		ID:           h.ID,
		CostoItemID:  h.CostoItemID,
		Fecha:        h.Fecha,
		CostoFabrica: h.CostoFabrica,
		CostoFOB:     h.CostoFOB,
		Coeficiente:  h.Coeficiente,
	}
}

func productoToDTO(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Linea:       p.Linea,
		Serie:       p.Serie,
		Descripcion: p.Descripcion,
	}
}

func resultadoToDTO(r pricing.Resultado) dto.ResultadoResponse {
	return dto.ResultadoResponse{
		CostoDirecto:     r.CostoDirecto,
		CostoTotal:       r.CostoTotal,
		PrecioCliente:    r.PrecioCliente,
		PrecioIntegrador: r.PrecioIntegrador,
	}
}

// costoDe resolves a line's weak reference. A NULL factory cost counts as 0;
// there is no fallback to the FOB cost.
func costoDe(item *model.CostoItem) pricing.Costo {
	if item == nil {
		return pricing.SinResolver()
	}
	if !item.CostoFabrica.Valid {
		return pricing.Resuelto(decimal.Zero)
	}
	return pricing.Resuelto(item.CostoFabrica.Decimal)
}

func lineasDe(lista *model.ListaPrecio) []pricing.Linea {
	lineas := make([]pricing.Linea, 0, len(lista.Items))
	for i := range lista.Items {
		it := &lista.Items[i]
		lineas = append(lineas, pricing.Linea{Costo: costoDe(it.CostoItem), Cantidad: it.Cantidad})
	}
	return lineas
}

func margenesDe(lista *model.ListaPrecio) pricing.Margenes {
	return pricing.Margenes{
		Eventuales:   lista.Eventuales,
		Garantia:     lista.Garantia,
		Burden:       lista.Burden,
		GPCliente:    lista.GPCliente,
		GPIntegrador: lista.GPIntegrador,
	}
}

func lineaToDTO(it *model.ListaPrecioItem) dto.LineaResponse {
	costo := costoDe(it.CostoItem)
	l := dto.LineaResponse{
		ItemID:        it.CostoItemID,
		Cantidad:      it.Cantidad,
		CostoUnitario: costo.Unitario(),
		Total:         pricing.TotalLinea(pricing.Linea{Costo: costo, Cantidad: it.Cantidad}),
		Resuelto:      costo.Resuelto(),
	}
	if it.CostoItem != nil {
		l.Codigo = it.CostoItem.Codigo
		l.Denominacion = it.CostoItem.Denominacion
	}
	return l
}

// listaToDTO renders the stored results; lines show the current unit costs.
func listaToDTO(l *model.ListaPrecio, conLineas bool) dto.ListaPrecioResponse {
	resp := dto.ListaPrecioResponse{
		Codigo:         l.Codigo,
		Nombre:         l.Nombre,
		ProductoCodigo: l.ProductoCodigo,
		ProductoNombre: l.ProductoNombre,
		Eventuales:     l.Eventuales,
		Garantia:       l.Garantia,
		Burden:         l.Burden,
		GPCliente:      l.GPCliente,
		GPIntegrador:   l.GPIntegrador,
		ResultadoResponse: dto.ResultadoResponse{
			CostoDirecto:     l.CostoDirecto,
			CostoTotal:       l.CostoTotal,
			PrecioCliente:    l.PrecioCliente,
			PrecioIntegrador: l.PrecioIntegrador,
		},
		CreadaEn: l.CreadaEn,
	}
	if conLineas {
		resp.Lineas = make([]dto.LineaResponse, 0, len(l.Items))
		for i := range l.Items {
			resp.Lineas = append(resp.Lineas, lineaToDTO(&l.Items[i]))
		}
	}
	return resp
}
