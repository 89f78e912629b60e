package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostoHistorial snapshots the cost fields of a CostoItem right BEFORE they
// change. Rows are immutable: they are only removed together with their item.
type CostoHistorial struct {
	ID           uint                `gorm:"primaryKey"`
	CostoItemID  uint                `gorm:"not null;index"`
	Fecha        time.Time           `gorm:"not null;index"`
	CostoFabrica decimal.NullDecimal `gorm:"type:decimal(14,4)"`
	CostoFOB     decimal.NullDecimal `gorm:"column:costo_fob;type:decimal(14,4)"`
	Coeficiente  decimal.NullDecimal `gorm:"type:decimal(10,4)"`
}

func (CostoHistorial) TableName() string { return "costos_historial" }

// SnapshotDe builds the history row for the current values of item.
func SnapshotDe(item *CostoItem, fecha time.Time) *CostoHistorial {
	return &CostoHistorial{
		CostoItemID:  item.ID,
		Fecha:        fecha,
		CostoFabrica: item.CostoFabrica,
		CostoFOB:     item.CostoFOB,
		Coeficiente:  item.Coeficiente,
	}
}
