package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
	"github.com/jhoicas/almoxarifado-api/pkg/config"
)

// lowStockKey clave única: la lista de bajo stock es global (un solo almoxarifado).
const lowStockKey = "almoxarifado:lowstock"

// LowStockCache cachea en Redis el listado de productos bajo stock.
// Es un cache fail-open: cualquier error de Redis se trata como miss y la
// lectura sigue hacia la base de datos. Se invalida tras cada movimiento y
// tras cada escritura de producto.
type LowStockCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New construye el cache a partir de la configuración. Devuelve nil si no hay
// REDIS_ADDR configurado; los callers tratan el cache nil como deshabilitado.
func New(cfg config.RedisConfig) *LowStockCache {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LowStockCache{rdb: rdb, ttl: ttl}
}

// Get devuelve la lista cacheada y true en caso de hit.
func (c *LowStockCache) Get(ctx context.Context) ([]*entity.Product, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, lowStockKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Msg("cache de bajo stock: get falló, se consulta la BD")
		}
		return nil, false
	}
	var products []*entity.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, false
	}
	return products, true
}

// Set guarda la lista con la vigencia configurada.
func (c *LowStockCache) Set(ctx context.Context, products []*entity.Product) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, lowStockKey, payload, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("cache de bajo stock: set falló")
	}
}

// Invalidate borra la entrada. Se llama tras cada movimiento registrado y
// tras crear/actualizar/borrar productos.
func (c *LowStockCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, lowStockKey).Err(); err != nil {
		log.Debug().Err(err).Msg("cache de bajo stock: invalidate falló")
	}
}

// Close cierra la conexión con Redis.
func (c *LowStockCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
