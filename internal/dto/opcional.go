package dto

import (
	"bytes"
	"encoding/json"
)

// Opcional distinguishes the three states of a PATCH-like JSON field:
// absent (Presente=false), explicit null (Presente=true, Valor=nil) and a value.
type Opcional[T any] struct {
	Presente bool
	Valor    *T
}

// UnmarshalJSON only runs when the key exists in the payload.
func (o *Opcional[T]) UnmarshalJSON(b []byte) error {
	o.Presente = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Valor = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Valor = &v
	return nil
}

// MarshalJSON renders absent and null the same way.
func (o Opcional[T]) MarshalJSON() ([]byte, error) {
	if o.Valor == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Valor)
}

// Valor builds a present, non-null field.
func Valor[T any](v T) Opcional[T] { return Opcional[T]{Presente: true, Valor: &v} }

// Nulo builds a present, explicitly null field.
func Nulo[T any]() Opcional[T] { return Opcional[T]{Presente: true} }
