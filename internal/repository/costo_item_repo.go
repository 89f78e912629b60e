package repository

import (
	"context"

	"costeodcm/internal/dto"
	"costeodcm/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostoItemRepository defines the data access contract for cost items.
type CostoItemRepository interface {
	Create(ctx context.Context, item *model.CostoItem) error
	FindByID(ctx context.Context, id uint) (*model.CostoItem, error)
	List(ctx context.Context, filter dto.CostoItemFilter) ([]model.CostoItem, error)
	Count(ctx context.Context) (int64, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, item *model.CostoItem) error
	FindByIDTx(tx *gorm.DB, id uint) (*model.CostoItem, error)
	FindByCodigoTx(tx *gorm.DB, codigo string) (*model.CostoItem, error)
	// FindByIDsTx returns the existing items among ids; missing ids are not an error.
	FindByIDsTx(tx *gorm.DB, ids []uint) ([]model.CostoItem, error)
	SaveTx(tx *gorm.DB, item *model.CostoItem) error
	DeleteTx(tx *gorm.DB, id uint) error

	// ListAfectadosPorBlueTx returns electronics with coeficiente > 1, by id.
	ListAfectadosPorBlueTx(tx *gorm.DB) ([]model.CostoItem, error)
	// UpdateCostoFabricaTx rewrites only costo_fabrica (and updated_at).
	UpdateCostoFabricaTx(tx *gorm.DB, id uint, valor decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type costoItemRepo struct{ db *gorm.DB }

func NewCostoItemRepository(db *gorm.DB) CostoItemRepository { return &costoItemRepo{db: db} }

func (r *costoItemRepo) Create(ctx context.Context, item *model.CostoItem) error {
	return r.CreateTx(r.db.WithContext(ctx), item)
}

func (r *costoItemRepo) FindByID(ctx context.Context, id uint) (*model.CostoItem, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *costoItemRepo) List(ctx context.Context, filter dto.CostoItemFilter) ([]model.CostoItem, error) {
	q := r.db.WithContext(ctx).Model(&model.CostoItem{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Subtipo != "" {
		q = q.Where("subtipo = ?", filter.Subtipo)
	}
	if filter.Codigo != "" {
		q = q.Where("codigo = ?", filter.Codigo)
	}

	var items []model.CostoItem
	err := q.Order("tipo ASC, subtipo ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *costoItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CostoItem{}).Count(&n).Error
	return n, err
}

func (r *costoItemRepo) CreateTx(tx *gorm.DB, item *model.CostoItem) error {
	return tx.Create(item).Error
}

func (r *costoItemRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.CostoItem, error) {
	var item model.CostoItem
	if err := tx.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *costoItemRepo) FindByCodigoTx(tx *gorm.DB, codigo string) (*model.CostoItem, error) {
	var item model.CostoItem
	if err := tx.Where("codigo = ?", codigo).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *costoItemRepo) FindByIDsTx(tx *gorm.DB, ids []uint) ([]model.CostoItem, error) {
	var items []model.CostoItem
	if len(ids) == 0 {
		return items, nil
	}
	err := tx.Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *costoItemRepo) SaveTx(tx *gorm.DB, item *model.CostoItem) error {
	return tx.Save(item).Error
}

func (r *costoItemRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.CostoItem{}, id).Error
}

func (r *costoItemRepo) ListAfectadosPorBlueTx(tx *gorm.DB) ([]model.CostoItem, error) {
	var items []model.CostoItem
	err := tx.
		Where("tipo = ? AND coeficiente > ?", model.TipoElectronica, 1).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *costoItemRepo) UpdateCostoFabricaTx(tx *gorm.DB, id uint, valor decimal.Decimal) error {
	return tx.Model(&model.CostoItem{}).Where("id = ?", id).
		Update("costo_fabrica", valor).Error
}

func (r *costoItemRepo) DB() *gorm.DB { return r.db }
