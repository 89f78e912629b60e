package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors. Handlers map them to HTTP status codes with errors.Is;
// services wrap them with context via fmt.Errorf("%w: ...").
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrParametroInvalido = errors.New("parámetro inválido")
	ErrDuplicado         = errors.New("registro duplicado")
	// ErrTransaccion marks a failure to commit; the whole operation was rolled
	// back and may be retried.
	ErrTransaccion = errors.New("no se pudo confirmar la transacción")
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit tests with stub repos).
// Errors returned by fn are passed through unchanged; an error raised by
// the transaction itself (begin or commit) is wrapped as ErrTransaccion.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	var fnErr error
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(tx)
		return fnErr
	})
	if err != nil && fnErr == nil {
		return fmt.Errorf("%w: %v", ErrTransaccion, err)
	}
	return err
}

func invalido(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrParametroInvalido, fmt.Sprintf(format, args...))
}

// noEncontrado translates gorm's not-found into ErrNotFound.
func noEncontrado(err error, recurso string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, recurso)
	}
	return err
}

// duplicado translates unique violations into ErrDuplicado.
func duplicado(err error, recurso string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicado, recurso)
	}
	return err
}
