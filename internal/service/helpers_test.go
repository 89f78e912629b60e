package service

import (
	"testing"

	"costeodcm/internal/infra"
	"costeodcm/internal/model"
	"costeodcm/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// entorno bundles an in-memory SQLite database with every repository and
// service wired the way the router does it.
type entorno struct {
	db         *gorm.DB
	items      repository.CostoItemRepository
	historial  repository.CostoHistorialRepository
	listas     repository.ListaPrecioRepository
	parametros repository.ParametroRepository
	productos  repository.ProductoRepository

	costos    CostoService
	listasSvc ListaPrecioService
	recalculo RecalculoService
	importSvc ImportService
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db, err := infra.NewDatabase(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, infra.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	e := &entorno{
		db:         db,
		items:      repository.NewCostoItemRepository(db),
		historial:  repository.NewCostoHistorialRepository(db),
		listas:     repository.NewListaPrecioRepository(db),
		parametros: repository.NewParametroRepository(db),
		productos:  repository.NewProductoRepository(db),
	}
	e.costos = NewCostoService(e.items, e.historial, nil)
	e.listasSvc = NewListaPrecioService(e.listas, e.items, nil)
	e.recalculo = NewRecalculoService(e.items, e.historial, e.listas, e.parametros, nil)
	e.importSvc = NewImportService(e.items, e.historial, e.productos, nil)
	return e
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func ptr[T any](v T) *T { return &v }

func (e *entorno) crearItem(t *testing.T, item model.CostoItem) *model.CostoItem {
	t.Helper()
	require.NoError(t, e.db.Create(&item).Error)
	return &item
}

func (e *entorno) crearLista(t *testing.T, codigo string, m model.ListaPrecio, lineas ...model.ListaPrecioItem) *model.ListaPrecio {
	t.Helper()
	m.Codigo = codigo
	if m.Nombre == "" {
		m.Nombre = "Lista " + codigo
	}
	m.Items = lineas
	require.NoError(t, e.listas.CreateTx(e.db, &m))
	return &m
}

func (e *entorno) recargarItem(t *testing.T, id uint) *model.CostoItem {
	t.Helper()
	var it model.CostoItem
	require.NoError(t, e.db.First(&it, id).Error)
	return &it
}

func (e *entorno) recargarLista(t *testing.T, codigo string) *model.ListaPrecio {
	t.Helper()
	var l model.ListaPrecio
	require.NoError(t, e.db.Where("codigo = ?", codigo).First(&l).Error)
	return &l
}

func (e *entorno) contarHistorial(t *testing.T, itemID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.CostoHistorial{}).Where("costo_item_id = ?", itemID).Count(&n).Error)
	return n
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertNullDec(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected non-null %s", want)
	assertDec(t, want, got.Decimal)
}
