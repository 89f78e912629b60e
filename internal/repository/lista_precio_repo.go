package repository

import (
	"context"

	"costeodcm/internal/model"
	"costeodcm/internal/pricing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrefijoLista is the fixed prefix of every price list code.
const PrefijoLista = "DCM"

// ListaPrecioRepository defines the data access contract for price lists and
// their lines.
type ListaPrecioRepository interface {
	FindByCodigo(ctx context.Context, codigo string) (*model.ListaPrecio, error)
	List(ctx context.Context) ([]model.ListaPrecio, error)

	CreateTx(tx *gorm.DB, lista *model.ListaPrecio) error
	FindByCodigoTx(tx *gorm.DB, codigo string) (*model.ListaPrecio, error)
	// ListConItemsTx loads every list with its lines and each line's cost item
	// in a fixed number of queries.
	ListConItemsTx(tx *gorm.DB) ([]model.ListaPrecio, error)
	SaveTx(tx *gorm.DB, lista *model.ListaPrecio) error
	// UpdateResultadosTx overwrites only the four derived result columns.
	UpdateResultadosTx(tx *gorm.DB, codigo string, res pricing.Resultado) error
	// ReplaceItemsTx deletes every line of the list and inserts items in order.
	ReplaceItemsTx(tx *gorm.DB, codigo string, items []model.ListaPrecioItem) error
	DeleteTx(tx *gorm.DB, codigo string) error
	// CodigosTx returns every code starting with PrefijoLista.
	CodigosTx(tx *gorm.DB) ([]string, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type listaPrecioRepo struct{ db *gorm.DB }

func NewListaPrecioRepository(db *gorm.DB) ListaPrecioRepository { return &listaPrecioRepo{db: db} }

func conItems(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC, id ASC") }).
		Preload("Items.CostoItem")
}

func (r *listaPrecioRepo) FindByCodigo(ctx context.Context, codigo string) (*model.ListaPrecio, error) {
	return r.FindByCodigoTx(r.db.WithContext(ctx), codigo)
}

func (r *listaPrecioRepo) List(ctx context.Context) ([]model.ListaPrecio, error) {
	var listas []model.ListaPrecio
	err := r.db.WithContext(ctx).Order("codigo ASC").Find(&listas).Error
	return listas, err
}

func (r *listaPrecioRepo) CreateTx(tx *gorm.DB, lista *model.ListaPrecio) error {
	items := lista.Items
	if err := tx.Omit(clause.Associations).Create(lista).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ListaCodigo = lista.Codigo
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func (r *listaPrecioRepo) FindByCodigoTx(tx *gorm.DB, codigo string) (*model.ListaPrecio, error) {
	var lista model.ListaPrecio
	if err := conItems(tx).Where("codigo = ?", codigo).First(&lista).Error; err != nil {
		return nil, err
	}
	return &lista, nil
}

func (r *listaPrecioRepo) ListConItemsTx(tx *gorm.DB) ([]model.ListaPrecio, error) {
	var listas []model.ListaPrecio
	err := conItems(tx).Order("codigo ASC").Find(&listas).Error
	return listas, err
}

func (r *listaPrecioRepo) SaveTx(tx *gorm.DB, lista *model.ListaPrecio) error {
	return tx.Omit(clause.Associations).Save(lista).Error
}

func (r *listaPrecioRepo) UpdateResultadosTx(tx *gorm.DB, codigo string, res pricing.Resultado) error {
	return tx.Model(&model.ListaPrecio{}).Where("codigo = ?", codigo).Updates(map[string]interface{}{
		"costo_directo":     res.CostoDirecto,
		"costo_total":       res.CostoTotal,
		"precio_cliente":    res.PrecioCliente,
		"precio_integrador": res.PrecioIntegrador,
	}).Error
}

func (r *listaPrecioRepo) ReplaceItemsTx(tx *gorm.DB, codigo string, items []model.ListaPrecioItem) error {
	if err := tx.Where("lista_codigo = ?", codigo).Delete(&model.ListaPrecioItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].ListaCodigo = codigo
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func (r *listaPrecioRepo) DeleteTx(tx *gorm.DB, codigo string) error {
	if err := tx.Where("lista_codigo = ?", codigo).Delete(&model.ListaPrecioItem{}).Error; err != nil {
		return err
	}
	res := tx.Where("codigo = ?", codigo).Delete(&model.ListaPrecio{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listaPrecioRepo) CodigosTx(tx *gorm.DB) ([]string, error) {
	var codigos []string
	err := tx.Model(&model.ListaPrecio{}).
		Where("codigo LIKE ?", PrefijoLista+"%").
		Pluck("codigo", &codigos).Error
	return codigos, err
}

func (r *listaPrecioRepo) DB() *gorm.DB { return r.db }
