package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParametroCoeficienteBlue is the key holding the global blue adjustment (%).
const ParametroCoeficienteBlue = "coeficiente_blue"

// Parametro is a global key/value setting with its own update timestamp.
type Parametro struct {
	Clave         string          `gorm:"primaryKey"`
	Valor         decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	ActualizadoEn time.Time       `gorm:"not null"`
}

func (Parametro) TableName() string { return "parametros" }
