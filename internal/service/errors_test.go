package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
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

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestRunTx_FalloEnCommitEsReintentable(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("could not serialize access"))

	err := runTx(context.Background(), db, func(tx *gorm.DB) error { return nil })

	assert.ErrorIs(t, err, ErrTransaccion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunTx_ErrorDeLaFuncionSinModificar(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := runTx(context.Background(), db, func(tx *gorm.DB) error { return ErrNotFound })

	assert.Same(t, ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunTx_SinDB(t *testing.T) {
	called := false
	err := runTx(context.Background(), nil, func(tx *gorm.DB) error {
		called = true
		assert.Nil(t, tx)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestTraduccionDeErrores(t *testing.T) {
	assert.ErrorIs(t, noEncontrado(gorm.ErrRecordNotFound, "x"), ErrNotFound)
	assert.ErrorIs(t, duplicado(gorm.ErrDuplicatedKey, "x"), ErrDuplicado)

	otro := errors.New("otro")
	assert.Same(t, otro, noEncontrado(otro, "x"))
	assert.Nil(t, duplicado(nil, "x"))
}
