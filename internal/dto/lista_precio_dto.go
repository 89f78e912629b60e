package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaRequest struct {
	ItemID   uint            `json:"item_id"  validate:"required,gt=0"`
	Cantidad decimal.Decimal `json:"cantidad" validate:"min=0"`
}

// MargenesRequest holds whole-number percentages (15 = 15%).
type MargenesRequest struct {
	Eventuales   decimal.Decimal `json:"eventuales"    validate:"min=0"`
	Garantia     decimal.Decimal `json:"garantia"      validate:"min=0"`
	Burden       decimal.Decimal `json:"burden"        validate:"min=0"`
	GPCliente    decimal.Decimal `json:"gp_cliente"    validate:"min=0"`
	GPIntegrador decimal.Decimal `json:"gp_integrador" validate:"min=0"`
}

type CalcularListaRequest struct {
	MargenesRequest
	Items []LineaRequest `json:"items" validate:"dive"`
}

type CrearListaPrecioRequest struct {
	Nombre         string `json:"nombre"          validate:"required,max=160"`
	ProductoCodigo string `json:"producto_codigo" validate:"max=60"`
	ProductoNombre string `json:"producto_nombre" validate:"max=160"`
	MargenesRequest
	Items []LineaRequest `json:"items" validate:"dive"`
}

// ActualizarListaPrecioRequest is a partial update. Items, when present,
// replace the whole line set.
type ActualizarListaPrecioRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,max=160"`
	ProductoCodigo *string          `json:"producto_codigo" validate:"omitempty,max=60"`
	ProductoNombre *string          `json:"producto_nombre" validate:"omitempty,max=160"`
	Eventuales     *decimal.Decimal `json:"eventuales"      validate:"omitempty,min=0"`
	Garantia       *decimal.Decimal `json:"garantia"        validate:"omitempty,min=0"`
	Burden         *decimal.Decimal `json:"burden"          validate:"omitempty,min=0"`
	GPCliente      *decimal.Decimal `json:"gp_cliente"      validate:"omitempty,min=0"`
	GPIntegrador   *decimal.Decimal `json:"gp_integrador"   validate:"omitempty,min=0"`
	Items          *[]LineaRequest  `json:"items"           validate:"omitempty,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ResultadoResponse struct {
	CostoDirecto     decimal.Decimal `json:"costo_directo"`
	CostoTotal       decimal.Decimal `json:"costo_total"`
	PrecioCliente    decimal.Decimal `json:"precio_cliente"`
	PrecioIntegrador decimal.Decimal `json:"precio_integrador"`
}

type LineaResponse struct {
	ItemID        uint            `json:"item_id"`
	Codigo        *string         `json:"codigo"`
	Denominacion  string          `json:"denominacion"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	Total         decimal.Decimal `json:"total"`
	Resuelto      bool            `json:"resuelto"`
}

type CalcularListaResponse struct {
	ResultadoResponse
	Lineas []LineaResponse `json:"lineas"`
}

type ListaPrecioResponse struct {
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	ProductoCodigo string          `json:"producto_codigo"`
	ProductoNombre string          `json:"producto_nombre"`
	Eventuales     decimal.Decimal `json:"eventuales"`
	Garantia       decimal.Decimal `json:"garantia"`
	Burden         decimal.Decimal `json:"burden"`
	GPCliente      decimal.Decimal `json:"gp_cliente"`
	GPIntegrador   decimal.Decimal `json:"gp_integrador"`
	ResultadoResponse
	CreadaEn time.Time       `json:"creada_en"`
	Lineas   []LineaResponse `json:"lineas,omitempty"`
}

type SiguienteCodigoResponse struct {
	Codigo string `json:"codigo"`
}

// CosteoGuardadoResponse keeps the envelope of the legacy /api/costeos alias.
type CosteoGuardadoResponse struct {
	OK      bool   `json:"ok"`
	Mensaje string `json:"mensaje"`
	Codigo  string `json:"codigo"`
}
