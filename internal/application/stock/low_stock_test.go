package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxarifado-api/internal/application/stock"
	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
)

func TestListLowStock_FiltraYOrdenaPorNombre(t *testing.T) {
	s := newMemStore(
		testProduct("p1", "Tuercas", 2, 10),
		testProduct("p2", "Arandelas", 1, 5),
		testProduct("p3", "Tornillos", 50, 10),
		testProduct("p4", "Clavos", 10, 10), // quantity == min_stock: no es bajo stock
	)
	uc := stock.NewLowStockUseCase(&fakeProductRepo{s}, nil)

	out := uc.ListLowStock(context.Background())
	require.Len(t, out, 2)
	assert.Equal(t, "Arandelas", out[0].Name, "orden alfabético")
	assert.Equal(t, "Tuercas", out[1].Name)
}

func TestListLowStock_DegradaAListaVaciaSiFallaLaBD(t *testing.T) {
	s := newMemStore(testProduct("p1", "Tuercas", 2, 10))
	s.failReads = true
	uc := stock.NewLowStockUseCase(&fakeProductRepo{s}, nil)

	out := uc.ListLowStock(context.Background())
	require.NotNil(t, out, "nunca nil: el caller serializa la lista directo a JSON")
	assert.Empty(t, out)
}

func TestListLowStock_UsaCacheEnHit(t *testing.T) {
	s := newMemStore(testProduct("p1", "Tuercas", 2, 10))
	cache := &fakeCache{}
	cache.Set(context.Background(), []*entity.Product{
		{ID: "cached", Name: "Desde cache", Quantity: 0, MinStock: 1},
	})
	uc := stock.NewLowStockUseCase(&fakeProductRepo{s}, cache)

	out := uc.ListLowStock(context.Background())
	require.Len(t, out, 1)
	assert.Equal(t, "cached", out[0].ID, "en hit no se consulta la BD")
}

func TestListLowStock_EscribeCacheEnMiss(t *testing.T) {
	s := newMemStore(testProduct("p1", "Tuercas", 2, 10))
	cache := &fakeCache{}
	uc := stock.NewLowStockUseCase(&fakeProductRepo{s}, cache)

	out := uc.ListLowStock(context.Background())
	require.Len(t, out, 1)

	cached, ok := cache.Get(context.Background())
	require.True(t, ok, "tras el miss la lista debe quedar cacheada")
	assert.Len(t, cached, 1)
}
