package infra

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const claveGeneracionListas = "listas:gen"

// ListaCache stores rendered price list details in Redis. Entries are keyed by
// a generation counter, so a single INCR invalidates every list at once after
// a bulk recalculation. A nil client turns every method into a no-op.
//
// Redis calls go through a circuit breaker. An invalidation that fails is kept
// pending, and no entry is read or written until it has been applied.
type ListaCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	cb        *CircuitBreaker
	pendiente atomic.Bool
}

func NewListaCache(rdb *redis.Client, ttl time.Duration) *ListaCache {
	return &ListaCache{rdb: rdb, ttl: ttl, cb: NewCircuitBreaker(DefaultCBConfig())}
}

func (c *ListaCache) habilitada() bool { return c != nil && c.rdb != nil }

// Estado reports the breaker state, or "disabled" without Redis.
func (c *ListaCache) Estado() string {
	if !c.habilitada() {
		return "disabled"
	}
	return c.cb.State().String()
}

// preparada applies a pending invalidation and reports whether the cache can
// be used for this call.
func (c *ListaCache) preparada(ctx context.Context) bool {
	if !c.habilitada() {
		return false
	}
	if !c.pendiente.Load() {
		return true
	}
	if err := c.cb.Execute(func() error { return c.rdb.Incr(ctx, claveGeneracionListas).Err() }); err != nil {
		return false
	}
	c.pendiente.Store(false)
	return true
}

func (c *ListaCache) clave(ctx context.Context, codigo string) (string, error) {
	var gen int64
	err := c.cb.Execute(func() error {
		var err error
		gen, err = c.rdb.Get(ctx, claveGeneracionListas).Int64()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return "lista:" + strconv.FormatInt(gen, 10) + ":" + codigo, nil
}

// Obtener decodes the cached entry for codigo into dst. On a miss it returns
// the key of the generation current at lookup time; the caller loads the list
// and hands that key to Guardar, so a load that races an invalidation lands in
// a generation nobody reads anymore. An empty key means the entry must not be
// cached. Any Redis or decoding failure is a miss.
func (c *ListaCache) Obtener(ctx context.Context, codigo string, dst interface{}) (string, bool) {
	if !c.preparada(ctx) {
		return "", false
	}
	key, err := c.clave(ctx, codigo)
	if err != nil {
		return "", false
	}
	var b []byte
	err = c.cb.Execute(func() error {
		var err error
		b, err = c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return "", false
	}
	if b == nil || json.Unmarshal(b, dst) != nil {
		return key, false
	}
	return key, true
}

// Guardar stores v under a key returned by Obtener. It is best effort;
// failures are logged and ignored.
func (c *ListaCache) Guardar(ctx context.Context, key string, v interface{}) {
	if !c.habilitada() || key == "" || c.pendiente.Load() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cb.Execute(func() error { return c.rdb.Set(ctx, key, b, c.ttl).Err() }); err != nil && !errors.Is(err, ErrCircuitOpen) {
		log.Warn().Err(err).Str("clave", key).Msg("cache: set lista")
	}
}

// Invalidar drops every cached list by moving to a new generation.
func (c *ListaCache) Invalidar(ctx context.Context) {
	if !c.habilitada() {
		return
	}
	if err := c.cb.Execute(func() error { return c.rdb.Incr(ctx, claveGeneracionListas).Err() }); err != nil {
		c.pendiente.Store(true)
		log.Warn().Err(err).Msg("cache: invalidacion pendiente")
		return
	}
	c.pendiente.Store(false)
}
