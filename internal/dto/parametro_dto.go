package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoeficienteBlueRequest carries the blue adjustment as a whole-number
// percentage. Zero is a valid value, so presence is checked by the handler.
type CoeficienteBlueRequest struct {
	Valor *decimal.Decimal `json:"valor"`
}

type ParametroResponse struct {
	Clave         string          `json:"clave"`
	Valor         decimal.Decimal `json:"valor"`
	ActualizadoEn time.Time       `json:"actualizado_en"`
}

// RecalculoResponse reports the outcome of a blue coefficient change.
type RecalculoResponse struct {
	CoeficienteBlue    decimal.Decimal `json:"coeficiente_blue"`
	ActualizadoEn      time.Time       `json:"actualizado_en"`
	ItemsActualizados  int             `json:"items_actualizados"`
	ListasRecalculadas int             `json:"listas_recalculadas"`
}
