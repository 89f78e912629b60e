package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"costeodcm/internal/dto"
	"costeodcm/internal/model"
	"costeodcm/internal/repository"

	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	codigo := strings.TrimSpace(req.Codigo)
	if codigo == "" || strings.TrimSpace(req.Nombre) == "" {
		return nil, invalido("codigo y nombre son obligatorios")
	}
	if err := s.codigoLibre(ctx, codigo, 0); err != nil {
		return nil, err
	}

	p := &model.Producto{
		Codigo:      codigo,
		Nombre:      req.Nombre,
		Linea:       req.Linea,
		Serie:       req.Serie,
		Descripcion: req.Descripcion,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, "código de producto")
	}
	resp := productoToDTO(p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	resp := productoToDTO(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, productoToDTO(&productos[i]))
	}
	return out, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	if vacio(req.Codigo) {
		return nil, invalido("codigo no puede quedar vacío")
	}
	if vacio(req.Nombre) {
		return nil, invalido("nombre no puede quedar vacío")
	}
	if req.Linea.Presente && req.Linea.Valor == nil {
		return nil, invalido("linea no admite null")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}

	if req.Codigo.Presente {
		codigo := strings.TrimSpace(*req.Codigo.Valor)
		if codigo != p.Codigo {
			if err := s.codigoLibre(ctx, codigo, p.ID); err != nil {
				return nil, err
			}
		}
		p.Codigo = codigo
	}
	if req.Nombre.Presente {
		p.Nombre = *req.Nombre.Valor
	}
	if req.Linea.Presente {
		p.Linea = *req.Linea.Valor
	}
	if req.Serie.Presente {
		p.Serie = req.Serie.Valor
	}
	if req.Descripcion.Presente {
		p.Descripcion = req.Descripcion.Valor
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, duplicado(err, "código de producto")
	}
	resp := productoToDTO(p)
	return &resp, nil
}

// Eliminar removes the product. Price lists keep their copied product code
// and name.
func (s *productoService) Eliminar(ctx context.Context, id uint) error {
	return noEncontrado(s.repo.Delete(ctx, id), "producto")
}

func (s *productoService) codigoLibre(ctx context.Context, codigo string, propioID uint) error {
	otro, err := s.repo.FindByCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if otro.ID != propioID {
		return fmt.Errorf("%w: el código %s ya está asignado", ErrDuplicado, codigo)
	}
	return nil
}

func vacio(o dto.Opcional[string]) bool {
	return o.Presente && (o.Valor == nil || strings.TrimSpace(*o.Valor) == "")
}
