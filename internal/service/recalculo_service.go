package service

import (
	"context"
	"fmt"
	"time"

	"costeodcm/internal/dto"
	"costeodcm/internal/model"
	"costeodcm/internal/pricing"
	"costeodcm/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecalculoService owns the global parameters and the bulk recalculation
// triggered by a change of the blue coefficient.
type RecalculoService interface {
	// Recalcular persists blue_pct, re-derives costo_fabrica of every imported
	// electronic item and recomputes every price list, all in one transaction.
	//
	// Two concurrent calls are not serialised against each other: the last one
	// to commit wins.
	Recalcular(ctx context.Context, bluePct decimal.Decimal) (*dto.RecalculoResponse, error)
	Parametros(ctx context.Context) ([]dto.ParametroResponse, error)
}

type recalculoService struct {
	items      repository.CostoItemRepository
	historial  repository.CostoHistorialRepository
	listas     repository.ListaPrecioRepository
	parametros repository.ParametroRepository
	cache      CacheListas
}

func NewRecalculoService(
	items repository.CostoItemRepository,
	historial repository.CostoHistorialRepository,
	listas repository.ListaPrecioRepository,
	parametros repository.ParametroRepository,
	cache CacheListas,
) RecalculoService {
	return &recalculoService{
		items:      items,
		historial:  historial,
		listas:     listas,
		parametros: parametros,
		cache:      cacheOSinCache(cache),
	}
}

// ── Recalcular ───────────────────────────────────────────────────────────────
//   1. Upsert parametros[coeficiente_blue]
//   2. For each Electronica item with coeficiente > 1 and a FOB cost:
//      snapshot + rewrite costo_fabrica when the derived value differs
//   3. Reload every list with its lines and items, recompute, store results
//   4. COMMIT (any error above rolls back everything, the parameter included)

func (s *recalculoService) Recalcular(ctx context.Context, bluePct decimal.Decimal) (*dto.RecalculoResponse, error) {
	if err := validarNumero(model.ParametroCoeficienteBlue, bluePct, rangoParametro); err != nil {
		return nil, err
	}

	ahora := time.Now().UTC()
	resp := &dto.RecalculoResponse{CoeficienteBlue: bluePct, ActualizadoEn: ahora}

	err := runTx(ctx, s.items.DB(), func(tx *gorm.DB) error {
		if err := s.parametros.UpsertTx(tx, &model.Parametro{
			Clave:         model.ParametroCoeficienteBlue,
			Valor:         bluePct,
			ActualizadoEn: ahora,
		}); err != nil {
			return err
		}

		n, err := s.recalcularCostos(tx, bluePct, ahora)
		if err != nil {
			return err
		}
		resp.ItemsActualizados = n

		// Must run after every costo_fabrica above has been written.
		n, err = s.recalcularListas(tx)
		if err != nil {
			return err
		}
		resp.ListasRecalculadas = n
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("coeficiente_blue", bluePct.String()).Msg("recalculo revertido")
		return nil, err
	}

	s.cache.Invalidar(ctx)
	log.Info().
		Str("coeficiente_blue", bluePct.String()).
		Int("items_actualizados", resp.ItemsActualizados).
		Int("listas_recalculadas", resp.ListasRecalculadas).
		Msg("recalculo confirmado")
	return resp, nil
}

func (s *recalculoService) recalcularCostos(tx *gorm.DB, bluePct decimal.Decimal, ahora time.Time) (int, error) {
	items, err := s.items.ListAfectadosPorBlueTx(tx)
	if err != nil {
		return 0, err
	}

	actualizados := 0
	for i := range items {
		it := &items[i]
		if !it.CostoFOB.Valid {
			continue
		}
		nuevo := pricing.CostoFabricaBlue(it.CostoFOB.Decimal, it.Coeficiente.Decimal, bluePct)
		if it.CostoFabrica.Valid && it.CostoFabrica.Decimal.Equal(nuevo) {
			continue
		}
		if err := validarDerivado(fmt.Sprintf("costo_fabrica del ítem %d", it.ID), nuevo, rangoCosto); err != nil {
			return 0, err
		}
		if err := s.historial.CreateTx(tx, model.SnapshotDe(it, ahora)); err != nil {
			return 0, err
		}
		if err := s.items.UpdateCostoFabricaTx(tx, it.ID, nuevo); err != nil {
			return 0, err
		}
		actualizados++
	}
	return actualizados, nil
}

func (s *recalculoService) recalcularListas(tx *gorm.DB) (int, error) {
	listas, err := s.listas.ListConItemsTx(tx)
	if err != nil {
		return 0, err
	}
	for i := range listas {
		l := &listas[i]
		res := pricing.Calcular(lineasDe(l), margenesDe(l))
		if err := validarResultado(res); err != nil {
			return 0, fmt.Errorf("lista %s: %w", l.Codigo, err)
		}
		if err := s.listas.UpdateResultadosTx(tx, l.Codigo, res); err != nil {
			return 0, err
		}
	}
	return len(listas), nil
}

func (s *recalculoService) Parametros(ctx context.Context) ([]dto.ParametroResponse, error) {
	rows, err := s.parametros.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ParametroResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, dto.ParametroResponse{Clave: p.Clave, Valor: p.Valor, ActualizadoEn: p.ActualizadoEn})
	}
	return out, nil
}
