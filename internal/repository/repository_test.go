package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"costeodcm/internal/infra"
	"costeodcm/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func newSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewDatabase(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, infra.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestCodigosTx_FiltraPorPrefijo(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "codigo" FROM "listas_precios" WHERE codigo LIKE $1`)).
		WithArgs("DCM%").
		WillReturnRows(sqlmock.NewRows([]string{"codigo"}).AddRow("DCM001").AddRow("DCM007"))

	codigos, err := NewListaPrecioRepository(db).CodigosTx(db)

	require.NoError(t, err)
	assert.Equal(t, []string{"DCM001", "DCM007"}, codigos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAfectadosPorBlueTx_Consulta(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "costos_items" WHERE tipo = $1 AND coeficiente > $2 ORDER BY id ASC`)).
		WithArgs(model.TipoElectronica, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tipo"}).AddRow(3, model.TipoElectronica))

	items, err := NewCostoItemRepository(db).ListAfectadosPorBlueTx(db)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParametroUpsertTx_OnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT ("clave") DO UPDATE SET "valor"="excluded"."valor","actualizado_en"="excluded"."actualizado_en"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewParametroRepository(db).UpsertTx(db, &model.Parametro{
		Clave:         model.ParametroCoeficienteBlue,
		Valor:         decimal.NewFromInt(10),
		ActualizadoEn: time.Now(),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByItem_MasRecientePrimero(t *testing.T) {
	db := newSQLite(t)
	repo := NewCostoHistorialRepository(db)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, h := range []model.CostoHistorial{
		{CostoItemID: 1, Fecha: base},
		{CostoItemID: 1, Fecha: base.Add(time.Hour)},
		{CostoItemID: 1, Fecha: base.Add(time.Hour)},
		{CostoItemID: 2, Fecha: base.Add(2 * time.Hour)},
	} {
		require.NoError(t, repo.CreateTx(db, &h))
	}

	rows, err := repo.ListByItem(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.EqualValues(t, 3, rows[0].ID, "same timestamp falls back to id")
	assert.EqualValues(t, 2, rows[1].ID)
	assert.EqualValues(t, 1, rows[2].ID)

	require.NoError(t, repo.DeleteByItemTx(db, 1))
	rows, err = repo.ListByItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListaPrecio_ReplaceItemsYDelete(t *testing.T) {
	db := newSQLite(t)
	repo := NewListaPrecioRepository(db)
	require.NoError(t, repo.CreateTx(db, &model.ListaPrecio{
		Codigo: "DCM001",
		Nombre: "Kit",
		Items: []model.ListaPrecioItem{
			{CostoItemID: 1, Cantidad: decimal.NewFromInt(1), Orden: 0},
			{CostoItemID: 2, Cantidad: decimal.NewFromInt(1), Orden: 1},
		},
	}))

	require.NoError(t, repo.ReplaceItemsTx(db, "DCM001", []model.ListaPrecioItem{
		{CostoItemID: 9, Cantidad: decimal.NewFromInt(4), Orden: 0},
	}))
	lista, err := repo.FindByCodigo(context.Background(), "DCM001")
	require.NoError(t, err)
	require.Len(t, lista.Items, 1)
	assert.EqualValues(t, 9, lista.Items[0].CostoItemID)
	assert.Nil(t, lista.Items[0].CostoItem, "dangling reference stays unresolved")

	require.NoError(t, repo.DeleteTx(db, "DCM001"))
	assert.ErrorIs(t, repo.DeleteTx(db, "DCM001"), gorm.ErrRecordNotFound)
}
