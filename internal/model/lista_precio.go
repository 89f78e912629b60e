package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListaPrecio is a price list configuration: margin parameters plus the
// derived results of the last computation. Margins are whole-number
// percentages (15 = 15%).
type ListaPrecio struct {
	Codigo         string `gorm:"primaryKey"` // DCM###
	Nombre         string `gorm:"not null"`
	ProductoCodigo string
	ProductoNombre string

	Eventuales   decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	Garantia     decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	Burden       decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	GPCliente    decimal.Decimal `gorm:"column:gp_cliente;type:decimal(7,2);not null;default:0"`
	GPIntegrador decimal.Decimal `gorm:"column:gp_integrador;type:decimal(7,2);not null;default:0"`

	CostoDirecto     decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`
	CostoTotal       decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`
	PrecioCliente    decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`
	PrecioIntegrador decimal.Decimal `gorm:"type:decimal(16,4);not null;default:0"`

	CreadaEn time.Time `gorm:"autoCreateTime"`

	Items []ListaPrecioItem `gorm:"foreignKey:ListaCodigo;references:Codigo"`
}

func (ListaPrecio) TableName() string { return "listas_precios" }

// ListaPrecioItem is one line of a price list. CostoItemID is a weak
// reference: a line whose item no longer exists contributes zero.
type ListaPrecioItem struct {
	ID          uint            `gorm:"primaryKey"`
	ListaCodigo string          `gorm:"index;not null"`
	CostoItemID uint            `gorm:"not null"`
	Cantidad    decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Orden       int             `gorm:"not null;default:0"`

	CostoItem *CostoItem `gorm:"foreignKey:CostoItemID"`
}

func (ListaPrecioItem) TableName() string { return "listas_precios_items" }
