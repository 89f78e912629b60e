package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"costeodcm/internal/dto"
	"costeodcm/internal/model"
	"costeodcm/internal/pricing"
	"costeodcm/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListaPrecioService defines the business logic contract for price lists.
type ListaPrecioService interface {
	// Calcular prices a set of lines without persisting anything.
	Calcular(ctx context.Context, req dto.CalcularListaRequest) (*dto.CalcularListaResponse, error)
	Crear(ctx context.Context, req dto.CrearListaPrecioRequest) (*dto.ListaPrecioResponse, error)
	Actualizar(ctx context.Context, codigo string, req dto.ActualizarListaPrecioRequest) (*dto.ListaPrecioResponse, error)
	Obtener(ctx context.Context, codigo string) (*dto.ListaPrecioResponse, error)
	Listar(ctx context.Context) ([]dto.ListaPrecioResponse, error)
	Eliminar(ctx context.Context, codigo string) error
	SiguienteCodigo(ctx context.Context) (string, error)
}

type listaPrecioService struct {
	listas repository.ListaPrecioRepository
	items  repository.CostoItemRepository
	cache  CacheListas
}

func NewListaPrecioService(listas repository.ListaPrecioRepository, items repository.CostoItemRepository, cache CacheListas) ListaPrecioService {
	return &listaPrecioService{listas: listas, items: items, cache: cacheOSinCache(cache)}
}

func (s *listaPrecioService) Calcular(ctx context.Context, req dto.CalcularListaRequest) (*dto.CalcularListaResponse, error) {
	if err := validarMargenes(req.MargenesRequest); err != nil {
		return nil, err
	}
	if err := validarLineas(req.Items); err != nil {
		return nil, err
	}

	lineas, err := s.resolverLineas(s.items.DB().WithContext(ctx), req.Items)
	if err != nil {
		return nil, err
	}

	res := pricing.Calcular(lineasDe(&model.ListaPrecio{Items: lineas}), margenesDeRequest(req.MargenesRequest))
	out := &dto.CalcularListaResponse{
		ResultadoResponse: resultadoToDTO(res),
		Lineas:            make([]dto.LineaResponse, 0, len(lineas)),
	}
	for i := range lineas {
		out.Lineas = append(out.Lineas, lineaToDTO(&lineas[i]))
	}
	return out, nil
}

func (s *listaPrecioService) Crear(ctx context.Context, req dto.CrearListaPrecioRequest) (*dto.ListaPrecioResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, invalido("nombre es obligatorio")
	}
	if err := validarMargenes(req.MargenesRequest); err != nil {
		return nil, err
	}
	if err := validarLineas(req.Items); err != nil {
		return nil, err
	}

	var lista *model.ListaPrecio
	err := runTx(ctx, s.listas.DB(), func(tx *gorm.DB) error {
		codigos, err := s.listas.CodigosTx(tx)
		if err != nil {
			return err
		}
		lineas, err := s.resolverLineas(tx, req.Items)
		if err != nil {
			return err
		}

		m := margenesDeRequest(req.MargenesRequest)
		lista = &model.ListaPrecio{
			Codigo:         SiguienteCodigoDe(codigos),
			Nombre:         req.Nombre,
			ProductoCodigo: req.ProductoCodigo,
			ProductoNombre: req.ProductoNombre,
			Eventuales:     m.Eventuales,
			Garantia:       m.Garantia,
			Burden:         m.Burden,
			GPCliente:      m.GPCliente,
			GPIntegrador:   m.GPIntegrador,
			Items:          lineas,
		}
		if err := aplicarResultado(lista, pricing.Calcular(lineasDe(lista), m)); err != nil {
			return err
		}

		return duplicado(s.listas.CreateTx(tx, lista), "código de lista "+lista.Codigo)
	})
	if err != nil {
		return nil, err
	}

	resp := listaToDTO(lista, true)
	return &resp, nil
}

func (s *listaPrecioService) Actualizar(ctx context.Context, codigo string, req dto.ActualizarListaPrecioRequest) (*dto.ListaPrecioResponse, error) {
	if req.Nombre != nil && strings.TrimSpace(*req.Nombre) == "" {
		return nil, invalido("nombre no puede quedar vacío")
	}
	for campo, v := range map[string]*decimal.Decimal{
		"eventuales":    req.Eventuales,
		"garantia":      req.Garantia,
		"burden":        req.Burden,
		"gp_cliente":    req.GPCliente,
		"gp_integrador": req.GPIntegrador,
	} {
		if err := validarNumeroOpcional(campo, v, rangoMargen); err != nil {
			return nil, err
		}
	}
	if req.Items != nil {
		if err := validarLineas(*req.Items); err != nil {
			return nil, err
		}
	}

	var lista *model.ListaPrecio
	err := runTx(ctx, s.listas.DB(), func(tx *gorm.DB) error {
		actual, err := s.listas.FindByCodigoTx(tx, codigo)
		if err != nil {
			return noEncontrado(err, "lista de precios "+codigo)
		}

		if req.Nombre != nil {
			actual.Nombre = *req.Nombre
		}
		if req.ProductoCodigo != nil {
			actual.ProductoCodigo = *req.ProductoCodigo
		}
		if req.ProductoNombre != nil {
			actual.ProductoNombre = *req.ProductoNombre
		}
		if req.Eventuales != nil {
			actual.Eventuales = *req.Eventuales
		}
		if req.Garantia != nil {
			actual.Garantia = *req.Garantia
		}
		if req.Burden != nil {
			actual.Burden = *req.Burden
		}
		if req.GPCliente != nil {
			actual.GPCliente = *req.GPCliente
		}
		if req.GPIntegrador != nil {
			actual.GPIntegrador = *req.GPIntegrador
		}

		if req.Items != nil {
			lineas, err := s.resolverLineas(tx, *req.Items)
			if err != nil {
				return err
			}
			if err := s.listas.ReplaceItemsTx(tx, codigo, lineas); err != nil {
				return err
			}
			actual.Items = lineas
		}

		if err := aplicarResultado(actual, pricing.Calcular(lineasDe(actual), margenesDe(actual))); err != nil {
			return err
		}
		if err := s.listas.SaveTx(tx, actual); err != nil {
			return err
		}
		lista = actual
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidar(ctx)
	resp := listaToDTO(lista, true)
	return &resp, nil
}

func (s *listaPrecioService) Obtener(ctx context.Context, codigo string) (*dto.ListaPrecioResponse, error) {
	var cached dto.ListaPrecioResponse
	clave, ok := s.cache.Obtener(ctx, codigo, &cached)
	if ok {
		return &cached, nil
	}

	lista, err := s.listas.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, noEncontrado(err, "lista de precios "+codigo)
	}
	resp := listaToDTO(lista, true)
	s.cache.Guardar(ctx, clave, resp)
	return &resp, nil
}

func (s *listaPrecioService) Listar(ctx context.Context) ([]dto.ListaPrecioResponse, error) {
	listas, err := s.listas.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ListaPrecioResponse, 0, len(listas))
	for i := range listas {
		out = append(out, listaToDTO(&listas[i], false))
	}
	return out, nil
}

func (s *listaPrecioService) Eliminar(ctx context.Context, codigo string) error {
	err := runTx(ctx, s.listas.DB(), func(tx *gorm.DB) error {
		return noEncontrado(s.listas.DeleteTx(tx, codigo), "lista de precios "+codigo)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidar(ctx)
	return nil
}

func (s *listaPrecioService) SiguienteCodigo(ctx context.Context) (string, error) {
	codigos, err := s.listas.CodigosTx(s.listas.DB().WithContext(ctx))
	if err != nil {
		return "", err
	}
	return SiguienteCodigoDe(codigos), nil
}

// resolverLineas builds the line models in request order, attaching the cost
// item of every id that still exists. Unknown ids are kept as dangling lines.
func (s *listaPrecioService) resolverLineas(tx *gorm.DB, req []dto.LineaRequest) ([]model.ListaPrecioItem, error) {
	ids := make([]uint, 0, len(req))
	for _, l := range req {
		ids = append(ids, l.ItemID)
	}
	encontrados, err := s.items.FindByIDsTx(tx, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uint]*model.CostoItem, len(encontrados))
	for i := range encontrados {
		porID[encontrados[i].ID] = &encontrados[i]
	}

	lineas := make([]model.ListaPrecioItem, 0, len(req))
	for i, l := range req {
		lineas = append(lineas, model.ListaPrecioItem{
			CostoItemID: l.ItemID,
			Cantidad:    l.Cantidad,
			Orden:       i,
			CostoItem:   porID[l.ItemID],
		})
	}
	return lineas, nil
}

// SiguienteCodigoDe returns DCM + (max numeric suffix + 1), zero-padded to
// three digits. Codes with a non-numeric suffix are ignored.
func SiguienteCodigoDe(codigos []string) string {
	maximo := 0
	for _, c := range codigos {
		if !strings.HasPrefix(c, repository.PrefijoLista) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(c, repository.PrefijoLista))
		if err != nil || n < 0 {
			continue
		}
		if n > maximo {
			maximo = n
		}
	}
	return fmt.Sprintf("%s%03d", repository.PrefijoLista, maximo+1)
}

func validarMargenes(m dto.MargenesRequest) error {
	for campo, v := range map[string]decimal.Decimal{
		"eventuales":    m.Eventuales,
		"garantia":      m.Garantia,
		"burden":        m.Burden,
		"gp_cliente":    m.GPCliente,
		"gp_integrador": m.GPIntegrador,
	} {
		if err := validarNumero(campo, v, rangoMargen); err != nil {
			return err
		}
	}
	return nil
}

func validarLineas(lineas []dto.LineaRequest) error {
	for i, l := range lineas {
		if l.ItemID == 0 {
			return invalido("línea %d: item_id es obligatorio", i+1)
		}
		if err := validarNumero(fmt.Sprintf("línea %d: cantidad", i+1), l.Cantidad, rangoCantidad); err != nil {
			return err
		}
	}
	return nil
}

func margenesDeRequest(m dto.MargenesRequest) pricing.Margenes {
	return pricing.Margenes{
		Eventuales:   m.Eventuales,
		Garantia:     m.Garantia,
		Burden:       m.Burden,
		GPCliente:    m.GPCliente,
		GPIntegrador: m.GPIntegrador,
	}
}

func aplicarResultado(l *model.ListaPrecio, r pricing.Resultado) error {
	if err := validarResultado(r); err != nil {
		return err
	}
	l.CostoDirecto = r.CostoDirecto
	l.CostoTotal = r.CostoTotal
	l.PrecioCliente = r.PrecioCliente
	l.PrecioIntegrador = r.PrecioIntegrador
	return nil
}
