package service

import (
	"context"
	"strings"
	"testing"

	"costeodcm/internal/dto"
	"costeodcm/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory Repository Stub ─────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uint]*model.Producto
	nextID    uint
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uint]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uint) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	return r.FindByCodigoTx(nil, codigo)
}

func (r *stubProductoRepo) List(_ context.Context, f dto.ProductoFilter) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		if f.Linea != "" && p.Linea != f.Linea {
			continue
		}
		if f.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(f.Nombre)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.productos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.productos)), nil
}

func (r *stubProductoRepo) FindByCodigoTx(_ *gorm.DB, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo == codigo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) SaveTx(_ *gorm.DB, p *model.Producto) error {
	if p.ID == 0 {
		return r.Create(context.Background(), p)
	}
	return r.Update(context.Background(), p)
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── Tests ────────────────────────────────────────────────────────────────────

func TestProductoService_Crear(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo())
	ctx := context.Background()

	p, err := svc.Crear(ctx, dto.CrearProductoRequest{Codigo: " T-1 ", Nombre: "Tablero", Linea: "Tableros"})
	require.NoError(t, err)
	assert.Equal(t, "T-1", p.Codigo)
	assert.NotZero(t, p.ID)

	_, err = svc.Crear(ctx, dto.CrearProductoRequest{Codigo: "T-1", Nombre: "Otro"})
	assert.ErrorIs(t, err, ErrDuplicado)

	_, err = svc.Crear(ctx, dto.CrearProductoRequest{Codigo: "   ", Nombre: "X"})
	assert.ErrorIs(t, err, ErrParametroInvalido)
}

func TestProductoService_ActualizarParcial(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo)
	ctx := context.Background()
	serie := "S1"
	p, err := svc.Crear(ctx, dto.CrearProductoRequest{Codigo: "T-1", Nombre: "Tablero", Linea: "L", Serie: &serie})
	require.NoError(t, err)
	_, err = svc.Crear(ctx, dto.CrearProductoRequest{Codigo: "T-2", Nombre: "Otro"})
	require.NoError(t, err)

	got, err := svc.Actualizar(ctx, p.ID, dto.ActualizarProductoRequest{
		Nombre: dto.Valor("Tablero grande"),
		Serie:  dto.Nulo[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tablero grande", got.Nombre)
	assert.Nil(t, got.Serie)
	assert.Equal(t, "L", got.Linea, "absent fields are untouched")

	_, err = svc.Actualizar(ctx, p.ID, dto.ActualizarProductoRequest{Codigo: dto.Valor("T-2")})
	assert.ErrorIs(t, err, ErrDuplicado)

	_, err = svc.Actualizar(ctx, p.ID, dto.ActualizarProductoRequest{Nombre: dto.Nulo[string]()})
	assert.ErrorIs(t, err, ErrParametroInvalido)

	_, err = svc.Actualizar(ctx, 99, dto.ActualizarProductoRequest{Nombre: dto.Valor("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductoService_ListarYEliminar(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo())
	ctx := context.Background()
	a, err := svc.Crear(ctx, dto.CrearProductoRequest{Codigo: "A", Nombre: "Tablero Alfa", Linea: "L1"})
	require.NoError(t, err)
	_, err = svc.Crear(ctx, dto.CrearProductoRequest{Codigo: "B", Nombre: "Gabinete", Linea: "L2"})
	require.NoError(t, err)

	lista, err := svc.Listar(ctx, dto.ProductoFilter{Nombre: "tablero"})
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "A", lista[0].Codigo)

	require.NoError(t, svc.Eliminar(ctx, a.ID))
	assert.ErrorIs(t, svc.Eliminar(ctx, a.ID), ErrNotFound)
	_, err = svc.ObtenerPorID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
