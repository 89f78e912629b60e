package repository

import (
	"context"

	"costeodcm/internal/model"

	"gorm.io/gorm"
)

type CostoHistorialRepository interface {
	CreateTx(tx *gorm.DB, h *model.CostoHistorial) error
	ListByItem(ctx context.Context, costoItemID uint) ([]model.CostoHistorial, error)
	DeleteByItemTx(tx *gorm.DB, costoItemID uint) error
}

type costoHistorialRepository struct{ db *gorm.DB }

func NewCostoHistorialRepository(db *gorm.DB) CostoHistorialRepository {
	return &costoHistorialRepository{db: db}
}

func (r *costoHistorialRepository) CreateTx(tx *gorm.DB, h *model.CostoHistorial) error {
	return tx.Create(h).Error
}

// ListByItem returns the snapshots of one item newest-first. id breaks ties
// between snapshots taken within the same clock tick.
func (r *costoHistorialRepository) ListByItem(ctx context.Context, costoItemID uint) ([]model.CostoHistorial, error) {
	var rows []model.CostoHistorial
	err := r.db.WithContext(ctx).
		Where("costo_item_id = ?", costoItemID).
		Order("fecha DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *costoHistorialRepository) DeleteByItemTx(tx *gorm.DB, costoItemID uint) error {
	return tx.Where("costo_item_id = ?", costoItemID).Delete(&model.CostoHistorial{}).Error
}
