package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"costeodcm/internal/dto"
	"costeodcm/internal/model"
	"costeodcm/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImportService loads the nested catalog JSON files.
//
// Cost items:  {tipo: {subtipo: [item...]}} or {tipo: {subtipo: {variante: [item...]}}}
// Products:    {linea: {serie: [producto...]}}
//
// Each import runs in a single transaction.
type ImportService interface {
	// ImportarCostos upserts items by codigo; items without codigo are always
	// inserted. Null or missing costs never overwrite stored values, and an
	// update that changes a cost field writes a history snapshot first.
	ImportarCostos(ctx context.Context, data []byte) (*dto.ResumenImport, error)
	// ImportarProductos upserts products by codigo; entries without codigo
	// are skipped.
	ImportarProductos(ctx context.Context, data []byte) (*dto.ResumenImport, error)
}

type importService struct {
	items     repository.CostoItemRepository
	historial repository.CostoHistorialRepository
	productos repository.ProductoRepository
	cache     CacheListas
}

func NewImportService(
	items repository.CostoItemRepository,
	historial repository.CostoHistorialRepository,
	productos repository.ProductoRepository,
	cache CacheListas,
) ImportService {
	return &importService{items: items, historial: historial, productos: productos, cache: cacheOSinCache(cache)}
}

// texto accepts both JSON strings and numbers (catalog codes are sometimes
// written as bare numbers).
type texto string

func (t *texto) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = texto(s)
		return nil
	}
	*t = texto(b)
	return nil
}

type costoImport struct {
	Item         *json.Number        `json:"item"`
	Codigo       *texto              `json:"codigo"`
	Denominacion *string             `json:"denominacion"`
	Unidad       *string             `json:"unidad"`
	CostoFabrica decimal.NullDecimal `json:"costo_fabrica"`
	CostoFOB     decimal.NullDecimal `json:"costo_fob"`
	Coeficiente  decimal.NullDecimal `json:"coeficiente"`
}

type productoImport struct {
	Codigo       *texto  `json:"codigo"`
	Nombre       *string `json:"nombre"`
	Denominacion *string `json:"denominacion"`
	Descripcion  *string `json:"descripcion"`
}

type grupoCostos struct {
	tipo, subtipo string
	variante      *string
	items         []costoImport
}

func (s *importService) ImportarCostos(ctx context.Context, data []byte) (*dto.ResumenImport, error) {
	grupos, err := parsearCostos(data)
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenImport{}
	ahora := time.Now().UTC()
	err = runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		for _, g := range grupos {
			for _, in := range g.items {
				if err := s.upsertCosto(tx, g, in, ahora, resumen); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resumen.Historial > 0 {
		s.cache.Invalidar(ctx)
	}
	log.Info().
		Int("creados", resumen.Creados).
		Int("actualizados", resumen.Actualizados).
		Int("sin_cambios", resumen.SinCambios).
		Int("historial", resumen.Historial).
		Msg("costos importados")
	return resumen, nil
}

func (s *importService) upsertCosto(tx *gorm.DB, g grupoCostos, in costoImport, ahora time.Time, resumen *dto.ResumenImport) error {
	if err := validarCostos(decimalOpcional(in.CostoFabrica), decimalOpcional(in.CostoFOB), decimalOpcional(in.Coeficiente)); err != nil {
		return fmt.Errorf("%s/%s: %w", g.tipo, g.subtipo, err)
	}

	var codigo *string
	if in.Codigo != nil {
		c := string(*in.Codigo)
		codigo = normalizarCodigo(&c)
	}
	var nroItem *int
	if in.Item != nil {
		if n, err := in.Item.Int64(); err == nil {
			v := int(n)
			nroItem = &v
		}
	}

	if codigo != nil {
		actual, err := s.items.FindByCodigoTx(tx, *codigo)
		switch {
		case err == nil:
			return s.actualizarImportado(tx, actual, g, in, nroItem, ahora, resumen)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
	}

	nuevo := &model.CostoItem{
		Tipo:         g.tipo,
		Subtipo:      g.subtipo,
		Variante:     g.variante,
		Item:         nroItem,
		Codigo:       codigo,
		Denominacion: valorOVacio(in.Denominacion),
		Unidad:       valorOVacio(in.Unidad),
		CostoFabrica: in.CostoFabrica,
		CostoFOB:     in.CostoFOB,
		Coeficiente:  in.Coeficiente,
	}
	if err := s.items.CreateTx(tx, nuevo); err != nil {
		return err
	}
	resumen.Creados++
	return nil
}

func (s *importService) actualizarImportado(
	tx *gorm.DB,
	actual *model.CostoItem,
	g grupoCostos,
	in costoImport,
	nroItem *int,
	ahora time.Time,
	resumen *dto.ResumenImport,
) error {
	antes := *actual
	actual.Tipo = g.tipo
	actual.Subtipo = g.subtipo
	actual.Variante = g.variante
	if nroItem != nil {
		actual.Item = nroItem
	}
	if in.Denominacion != nil {
		actual.Denominacion = *in.Denominacion
	}
	if in.Unidad != nil {
		actual.Unidad = *in.Unidad
	}
	if in.CostoFabrica.Valid {
		actual.CostoFabrica = in.CostoFabrica
	}
	if in.CostoFOB.Valid {
		actual.CostoFOB = in.CostoFOB
	}
	if in.Coeficiente.Valid {
		actual.Coeficiente = in.Coeficiente
	}

	cambioCosto := cambioDeCosto(&antes, actual)
	if !cambioCosto && !cambioDescriptivo(&antes, actual) {
		resumen.SinCambios++
		return nil
	}
	if cambioCosto {
		if err := s.historial.CreateTx(tx, model.SnapshotDe(&antes, ahora)); err != nil {
			return err
		}
		resumen.Historial++
	}
	if err := s.items.SaveTx(tx, actual); err != nil {
		return err
	}
	resumen.Actualizados++
	return nil
}

func cambioDescriptivo(a, b *model.CostoItem) bool {
	mismoItem := (a.Item == nil && b.Item == nil) || (a.Item != nil && b.Item != nil && *a.Item == *b.Item)
	return a.Tipo != b.Tipo ||
		a.Subtipo != b.Subtipo ||
		!mismoTexto(a.Variante, b.Variante) ||
		!mismoItem ||
		a.Denominacion != b.Denominacion ||
		a.Unidad != b.Unidad
}

func (s *importService) ImportarProductos(ctx context.Context, data []byte) (*dto.ResumenImport, error) {
	var catalogo map[string]map[string][]productoImport
	if err := json.Unmarshal(data, &catalogo); err != nil {
		return nil, invalido("catálogo de productos: %v", err)
	}

	resumen := &dto.ResumenImport{}
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		for _, linea := range clavesOrdenadas(catalogo) {
			series := catalogo[linea]
			for _, serie := range clavesOrdenadas(series) {
				for _, in := range series[serie] {
					if err := s.upsertProducto(tx, linea, serie, in, resumen); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("creados", resumen.Creados).
		Int("actualizados", resumen.Actualizados).
		Int("sin_cambios", resumen.SinCambios).
		Int("omitidos", resumen.Omitidos).
		Msg("productos importados")
	return resumen, nil
}

func (s *importService) upsertProducto(tx *gorm.DB, linea, serie string, in productoImport, resumen *dto.ResumenImport) error {
	if in.Codigo == nil || strings.TrimSpace(string(*in.Codigo)) == "" {
		resumen.Omitidos++
		return nil
	}
	codigo := strings.TrimSpace(string(*in.Codigo))

	nombre := "Sin nombre"
	switch {
	case in.Nombre != nil && *in.Nombre != "":
		nombre = *in.Nombre
	case in.Denominacion != nil && *in.Denominacion != "":
		nombre = *in.Denominacion
	}
	descripcion := in.Descripcion
	if descripcion == nil {
		descripcion = &nombre
	}
	serieCopia := serie

	actual, err := s.productos.FindByCodigoTx(tx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resumen.Creados++
		return s.productos.SaveTx(tx, &model.Producto{
			Codigo:      codigo,
			Nombre:      nombre,
			Linea:       linea,
			Serie:       &serieCopia,
			Descripcion: descripcion,
		})
	}
	if err != nil {
		return err
	}

	if actual.Nombre == nombre && actual.Linea == linea &&
		mismoTexto(actual.Serie, &serieCopia) && mismoTexto(actual.Descripcion, descripcion) {
		resumen.SinCambios++
		return nil
	}
	actual.Nombre = nombre
	actual.Linea = linea
	actual.Serie = &serieCopia
	actual.Descripcion = descripcion
	resumen.Actualizados++
	return s.productos.SaveTx(tx, actual)
}

// parsearCostos flattens both nesting shapes into ordered groups.
func parsearCostos(data []byte) ([]grupoCostos, error) {
	var raiz map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raiz); err != nil {
		return nil, invalido("catálogo de costos: %v", err)
	}

	var grupos []grupoCostos
	for _, tipo := range clavesOrdenadas(raiz) {
		subtipos := raiz[tipo]
		for _, subtipo := range clavesOrdenadas(subtipos) {
			raw := bytes.TrimSpace(subtipos[subtipo])
			if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
				continue
			}

			if raw[0] == '[' {
				var items []costoImport
				if err := json.Unmarshal(raw, &items); err != nil {
					return nil, invalido("%s/%s: %v", tipo, subtipo, err)
				}
				grupos = append(grupos, grupoCostos{tipo: tipo, subtipo: subtipo, items: items})
				continue
			}

			var variantes map[string][]costoImport
			if err := json.Unmarshal(raw, &variantes); err != nil {
				return nil, invalido("%s/%s: %v", tipo, subtipo, err)
			}
			for _, v := range clavesOrdenadas(variantes) {
				variante := v
				grupos = append(grupos, grupoCostos{
					tipo: tipo, subtipo: subtipo, variante: &variante, items: variantes[v],
				})
			}
		}
	}
	return grupos, nil
}

func clavesOrdenadas[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valorOVacio(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decimalOpcional(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}
