package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoElectronica is the only cost item type affected by the blue adjustment.
const TipoElectronica = "Electronica"

// CostoItem is a priced catalog component. CostoFabrica of imported
// electronics is derived from CostoFOB * Coeficiente * (1 + blue) and is only
// ever rewritten together with a CostoHistorial snapshot.
type CostoItem struct {
	ID           uint   `gorm:"primaryKey"`
	Tipo         string `gorm:"index;not null;default:''"`
	Subtipo      string `gorm:"index;not null;default:''"`
	Variante     *string
	Item         *int
	Codigo       *string             `gorm:"uniqueIndex"` // NULL codes are never deduplicated
	Denominacion string              `gorm:"not null;default:''"`
	Unidad       string              `gorm:"not null;default:''"`
	CostoFabrica decimal.NullDecimal `gorm:"type:decimal(14,4)"`
	CostoFOB     decimal.NullDecimal `gorm:"column:costo_fob;type:decimal(14,4)"`
	Coeficiente  decimal.NullDecimal `gorm:"type:decimal(10,4)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CostoItem) TableName() string { return "costos_items" }
