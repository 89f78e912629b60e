package model

import "time"

// Producto is a catalog entry (linea → serie → producto). Price lists refer to
// products by code only, so deleting a product never touches them.
type Producto struct {
	ID          uint    `gorm:"primaryKey"`
	Codigo      string  `gorm:"uniqueIndex;not null"`
	Nombre      string  `gorm:"not null"`
	Linea       string  `gorm:"index;not null;default:''"`
	Serie       *string `gorm:"index"`
	Descripcion *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Producto) TableName() string { return "productos" }
