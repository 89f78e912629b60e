package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"costeodcm/internal/dto"
	"costeodcm/internal/model"
	"costeodcm/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CacheListas is the price list detail cache. Implementations must be safe to
// call when caching is disabled. Obtener returns the key a miss should be
// stored under; it is fixed before the caller reads the database.
type CacheListas interface {
	Obtener(ctx context.Context, codigo string, dst interface{}) (clave string, ok bool)
	Guardar(ctx context.Context, clave string, v interface{})
	Invalidar(ctx context.Context)
}

// sinCache is used when no cache is wired.
type sinCache struct{}

func (sinCache) Obtener(context.Context, string, interface{}) (string, bool) { return "", false }
func (sinCache) Guardar(context.Context, string, interface{})                {}
func (sinCache) Invalidar(context.Context)                                   {}

func cacheOSinCache(c CacheListas) CacheListas {
	if c == nil {
		return sinCache{}
	}
	return c
}

// CostoService defines the business logic contract for cost items and their
// history.
type CostoService interface {
	Crear(ctx context.Context, req dto.CrearCostoItemRequest) (*dto.CostoItemResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.CostoItemResponse, error)
	Listar(ctx context.Context, filter dto.CostoItemFilter) ([]dto.CostoItemResponse, error)
	// Actualizar applies a partial update. A change to any cost field is
	// preceded by a history snapshot of the previous values, in the same
	// transaction.
	Actualizar(ctx context.Context, id uint, req dto.ActualizarCostoItemRequest) (*dto.ActualizarCostoResponse, error)
	// Eliminar removes the item and its history. Price list lines that point
	// at it become unresolved.
	Eliminar(ctx context.Context, id uint) error
	Historial(ctx context.Context, id uint) ([]dto.CostoHistorialResponse, error)
}

type costoService struct {
	items     repository.CostoItemRepository
	historial repository.CostoHistorialRepository
	cache     CacheListas
}

func NewCostoService(items repository.CostoItemRepository, historial repository.CostoHistorialRepository, cache CacheListas) CostoService {
	return &costoService{items: items, historial: historial, cache: cacheOSinCache(cache)}
}

func (s *costoService) Crear(ctx context.Context, req dto.CrearCostoItemRequest) (*dto.CostoItemResponse, error) {
	if err := validarCostos(req.CostoFabrica, req.CostoFOB, req.Coeficiente); err != nil {
		return nil, err
	}

	item := &model.CostoItem{
		Tipo:         req.Tipo,
		Subtipo:      req.Subtipo,
		Variante:     req.Variante,
		Item:         req.Item,
		Codigo:       normalizarCodigo(req.Codigo),
		Denominacion: req.Denominacion,
		Unidad:       req.Unidad,
		CostoFabrica: nullDecimal(req.CostoFabrica),
		CostoFOB:     nullDecimal(req.CostoFOB),
		Coeficiente:  nullDecimal(req.Coeficiente),
	}

	err := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if item.Codigo != nil {
			if err := s.codigoLibre(tx, *item.Codigo, 0); err != nil {
				return err
			}
		}
		return duplicado(s.items.CreateTx(tx, item), "código de ítem")
	})
	if err != nil {
		return nil, err
	}

	resp := costoItemToDTO(item)
	return &resp, nil
}

func (s *costoService) ObtenerPorID(ctx context.Context, id uint) (*dto.CostoItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "ítem de costo")
	}
	resp := costoItemToDTO(item)
	return &resp, nil
}

func (s *costoService) Listar(ctx context.Context, filter dto.CostoItemFilter) ([]dto.CostoItemResponse, error) {
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CostoItemResponse, 0, len(items))
	for i := range items {
		out = append(out, costoItemToDTO(&items[i]))
	}
	return out, nil
}

func (s *costoService) Actualizar(ctx context.Context, id uint, req dto.ActualizarCostoItemRequest) (*dto.ActualizarCostoResponse, error) {
	if err := validarActualizacion(req); err != nil {
		return nil, err
	}

	var (
		item       *model.CostoItem
		registrado bool
	)
	err := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		actual, err := s.items.FindByIDTx(tx, id)
		if err != nil {
			return noEncontrado(err, "ítem de costo")
		}
		antes := *actual

		aplicarActualizacion(actual, req)
		if actual.Codigo != nil && !mismoTexto(antes.Codigo, actual.Codigo) {
			if err := s.codigoLibre(tx, *actual.Codigo, actual.ID); err != nil {
				return err
			}
		}

		if cambioDeCosto(&antes, actual) {
			if err := s.historial.CreateTx(tx, model.SnapshotDe(&antes, time.Now().UTC())); err != nil {
				return err
			}
			registrado = true
		}
		if err := s.items.SaveTx(tx, actual); err != nil {
			return duplicado(err, "código de ítem")
		}
		item = actual
		return nil
	})
	if err != nil {
		return nil, err
	}

	if registrado {
		s.cache.Invalidar(ctx)
		log.Info().Uint("costo_item_id", id).Msg("costo actualizado con historial")
	}

	mensaje := "Ítem actualizado correctamente"
	if registrado {
		mensaje += " y guardado en historial"
	}
	return &dto.ActualizarCostoResponse{
		OK:                  true,
		Mensaje:             mensaje,
		Item:                costoItemToDTO(item),
		HistorialRegistrado: registrado,
	}, nil
}

func (s *costoService) Eliminar(ctx context.Context, id uint) error {
	err := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if _, err := s.items.FindByIDTx(tx, id); err != nil {
			return noEncontrado(err, "ítem de costo")
		}
		if err := s.historial.DeleteByItemTx(tx, id); err != nil {
			return err
		}
		return s.items.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidar(ctx)
	return nil
}

func (s *costoService) Historial(ctx context.Context, id uint) ([]dto.CostoHistorialResponse, error) {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err, "ítem de costo")
	}
	rows, err := s.historial.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CostoHistorialResponse, 0, len(rows))
	for i := range rows {
		out = append(out, historialToDTO(&rows[i]))
	}
	return out, nil
}

// codigoLibre fails with ErrDuplicado when another item already uses codigo.
func (s *costoService) codigoLibre(tx *gorm.DB, codigo string, propioID uint) error {
	otro, err := s.items.FindByCodigoTx(tx, codigo)
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

func validarActualizacion(req dto.ActualizarCostoItemRequest) error {
	obligatorios := map[string]dto.Opcional[string]{
		"tipo":         req.Tipo,
		"subtipo":      req.Subtipo,
		"denominacion": req.Denominacion,
		"unidad":       req.Unidad,
	}
	for campo, o := range obligatorios {
		if o.Presente && o.Valor == nil {
			return invalido("%s no admite null", campo)
		}
	}
	if req.Tipo.Valor != nil && strings.TrimSpace(*req.Tipo.Valor) == "" {
		return invalido("tipo no puede quedar vacío")
	}
	if req.Denominacion.Valor != nil && strings.TrimSpace(*req.Denominacion.Valor) == "" {
		return invalido("denominacion no puede quedar vacía")
	}
	return validarCostos(req.CostoFabrica.Valor, req.CostoFOB.Valor, req.Coeficiente.Valor)
}

// aplicarActualizacion copies every present field of req onto item.
func aplicarActualizacion(item *model.CostoItem, req dto.ActualizarCostoItemRequest) {
	if req.Tipo.Presente {
		item.Tipo = *req.Tipo.Valor
	}
	if req.Subtipo.Presente {
		item.Subtipo = *req.Subtipo.Valor
	}
	if req.Denominacion.Presente {
		item.Denominacion = *req.Denominacion.Valor
	}
	if req.Unidad.Presente {
		item.Unidad = *req.Unidad.Valor
	}
	if req.Variante.Presente {
		item.Variante = req.Variante.Valor
	}
	if req.Item.Presente {
		item.Item = req.Item.Valor
	}
	if req.Codigo.Presente {
		item.Codigo = normalizarCodigo(req.Codigo.Valor)
	}
	if req.CostoFabrica.Presente {
		item.CostoFabrica = nullDecimal(req.CostoFabrica.Valor)
	}
	if req.CostoFOB.Presente {
		item.CostoFOB = nullDecimal(req.CostoFOB.Valor)
	}
	if req.Coeficiente.Presente {
		item.Coeficiente = nullDecimal(req.Coeficiente.Valor)
	}
}

func cambioDeCosto(antes, despues *model.CostoItem) bool {
	return !mismoDecimal(antes.CostoFabrica, despues.CostoFabrica) ||
		!mismoDecimal(antes.CostoFOB, despues.CostoFOB) ||
		!mismoDecimal(antes.Coeficiente, despues.Coeficiente)
}

func mismoDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

func mismoTexto(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// normalizarCodigo maps blank codes to NULL so they are never deduplicated.
func normalizarCodigo(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}
