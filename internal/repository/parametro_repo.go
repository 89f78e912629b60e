package repository

import (
	"context"

	"costeodcm/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParametroRepository interface {
	Get(ctx context.Context, clave string) (*model.Parametro, error)
	List(ctx context.Context) ([]model.Parametro, error)
	// UpsertTx inserts or overwrites valor and actualizado_en for p.Clave.
	UpsertTx(tx *gorm.DB, p *model.Parametro) error
}

type parametroRepo struct{ db *gorm.DB }

func NewParametroRepository(db *gorm.DB) ParametroRepository { return &parametroRepo{db: db} }

func (r *parametroRepo) Get(ctx context.Context, clave string) (*model.Parametro, error) {
	var p model.Parametro
	if err := r.db.WithContext(ctx).Where("clave = ?", clave).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *parametroRepo) List(ctx context.Context) ([]model.Parametro, error) {
	var rows []model.Parametro
	err := r.db.WithContext(ctx).Order("clave ASC").Find(&rows).Error
	return rows, err
}

func (r *parametroRepo) UpsertTx(tx *gorm.DB, p *model.Parametro) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "actualizado_en"}),
	}).Create(p).Error
}
