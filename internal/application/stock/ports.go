package stock

import (
	"context"

	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
	"github.com/jhoicas/almoxarifado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad entre la inserción del movimiento y la
// actualización del saldo del producto.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// LowStockCache cache opcional del listado de bajo stock (interfaz del consumidor;
// la implementa rediscache.LowStockCache, incluso con receptor nil).
type LowStockCache interface {
	Get(ctx context.Context) ([]*entity.Product, bool)
	Set(ctx context.Context, products []*entity.Product)
	Invalidate(ctx context.Context)
}
