package stock

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
	"github.com/jhoicas/almoxarifado-api/internal/domain/repository"
)

// LowStockUseCase lista los productos con quantity < min_stock, con cache
// Redis opcional por delante de la consulta.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
	cache       LowStockCache
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(productRepo repository.ProductRepository, cache LowStockCache) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo, cache: cache}
}

// ListLowStock devuelve los productos bajo el umbral mínimo ordenados por nombre.
// Si el almacenamiento no responde, degrada a lista vacía en lugar de fallar
// (es una lectura de alerta, no una mutación).
func (uc *LowStockUseCase) ListLowStock(ctx context.Context) []*entity.Product {
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx); ok {
			return cached
		}
	}

	products, err := uc.productRepo.ListLowStock(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("bajo stock: consulta falló, se devuelve lista vacía")
		return []*entity.Product{}
	}
	if products == nil {
		products = []*entity.Product{}
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, products)
	}
	return products
}
