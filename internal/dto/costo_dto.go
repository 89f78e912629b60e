package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCostoItemRequest struct {
	Tipo         string           `json:"tipo"          validate:"required,max=80"`
	Subtipo      string           `json:"subtipo"       validate:"max=120"`
	Variante     *string          `json:"variante"`
	Item         *int             `json:"item"`
	Codigo       *string          `json:"codigo"        validate:"omitempty,max=60"`
	Denominacion string           `json:"denominacion"  validate:"required"`
	Unidad       string           `json:"unidad"`
	CostoFabrica *decimal.Decimal `json:"costo_fabrica" validate:"omitempty,min=0"`
	CostoFOB     *decimal.Decimal `json:"costo_fob"     validate:"omitempty,min=0"`
	Coeficiente  *decimal.Decimal `json:"coeficiente"   validate:"omitempty,min=0"`
}

// ActualizarCostoItemRequest lists every field a client may change. Keys not
// declared here are rejected by the handler before anything is applied.
type ActualizarCostoItemRequest struct {
	Tipo         Opcional[string]          `json:"tipo"`
	Subtipo      Opcional[string]          `json:"subtipo"`
	Variante     Opcional[string]          `json:"variante"`
	Item         Opcional[int]             `json:"item"`
	Codigo       Opcional[string]          `json:"codigo"`
	Denominacion Opcional[string]          `json:"denominacion"`
	Unidad       Opcional[string]          `json:"unidad"`
	CostoFabrica Opcional[decimal.Decimal] `json:"costo_fabrica"`
	CostoFOB     Opcional[decimal.Decimal] `json:"costo_fob"`
	Coeficiente  Opcional[decimal.Decimal] `json:"coeficiente"`
}

type CostoItemFilter struct {
	Tipo    string `form:"tipo"`
	Subtipo string `form:"subtipo"`
	Codigo  string `form:"codigo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CostoItemResponse struct {
	ID           uint                `json:"id"`
	Tipo         string              `json:"tipo"`
	Subtipo      string              `json:"subtipo"`
	Variante     *string             `json:"variante"`
	Item         *int                `json:"item"`
	Codigo       *string             `json:"codigo"`
	Denominacion string              `json:"denominacion"`
	Unidad       string              `json:"unidad"`
	CostoFabrica decimal.NullDecimal `json:"costo_fabrica"`
	CostoFOB     decimal.NullDecimal `json:"costo_fob"`
	Coeficiente  decimal.NullDecimal `json:"coeficiente"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type ActualizarCostoResponse struct {
	OK                  bool              `json:"ok"`
	Mensaje             string            `json:"mensaje"`
	Item                CostoItemResponse `json:"item"`
	HistorialRegistrado bool              `json:"historial_registrado"`
}

type CostoHistorialResponse struct {
	ID           uint                `json:"id"`
	CostoItemID  uint                `json:"costo_item_id"`
	Fecha        time.Time           `json:"fecha"`
	CostoFabrica decimal.NullDecimal `json:"costo_fabrica"`
	CostoFOB     decimal.NullDecimal `json:"costo_fob"`
	Coeficiente  decimal.NullDecimal `json:"coeficiente"`
}
