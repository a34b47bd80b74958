package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxarifado-api/internal/application/dto"
	"github.com/jhoicas/almoxarifado-api/internal/application/usecase"
	"github.com/jhoicas/almoxarifado-api/internal/domain"
	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type productRepoFake struct {
	products  map[string]*entity.Product
	failReads bool
	deleteErr error
}

func newProductRepoFake(products ...*entity.Product) *productRepoFake {
	r := &productRepoFake{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *productRepoFake) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *productRepoFake) GetByID(id string) (*entity.Product, error) {
	if r.failReads {
		return nil, errors.New("conexión perdida")
	}
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepoFake) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepoFake) Update(p *entity.Product) error {
	existing, ok := r.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Quantity = existing.Quantity
	r.products[p.ID] = &cp
	return nil
}

func (r *productRepoFake) UpdateQuantity(id string, quantity int64) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *productRepoFake) List() ([]*entity.Product, error) {
	if r.failReads {
		return nil, errors.New("conexión perdida")
	}
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *productRepoFake) Search(term string) ([]*entity.Product, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *productRepoFake) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *productRepoFake) Delete(id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type movementRepoFake struct {
	movements []*entity.Movement
	failReads bool
}

func (r *movementRepoFake) Create(m *entity.Movement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *movementRepoFake) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepoFake) ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error) {
	if r.failReads {
		return nil, errors.New("conexión perdida")
	}
	out := make([]*entity.Movement, 0)
	for _, m := range r.movements {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return []*entity.Movement{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *movementRepoFake) ExistsByProduct(productID string) (bool, error) {
	for _, m := range r.movements {
		if m.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

type alertCacheFake struct{ invalidations int }

func (c *alertCacheFake) Invalidate(_ context.Context) { c.invalidations++ }

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_IniciaConSaldoCero(t *testing.T) {
	repo := newProductRepoFake()
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, nil)

	price := decimal.NewFromFloat(12.50)
	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:        "  Tornillos  ",
		Description: "caja x100",
		MinStock:    5,
		UnitPrice:   &price,
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Tornillos", out.Name, "el nombre se guarda sin espacios sobrantes")
	assert.Equal(t, int64(0), out.Quantity, "el stock solo entra por movimientos")
	assert.Equal(t, int64(5), out.MinStock)
	assert.True(t, out.LowStock, "0 < 5: nace en alerta de bajo stock")
	assert.True(t, price.Equal(out.UnitPrice))
}

func TestProductCreate_Validaciones(t *testing.T) {
	repo := newProductRepoFake()
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, nil)
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name  string
		input dto.CreateProductRequest
	}{
		{"nombre vacío", dto.CreateProductRequest{Name: ""}},
		{"nombre solo espacios", dto.CreateProductRequest{Name: "   "}},
		{"min_stock negativo", dto.CreateProductRequest{Name: "Tornillos", MinStock: -1}},
		{"unit_price negativo", dto.CreateProductRequest{Name: "Tornillos", UnitPrice: &negative}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, repo.products, "ninguna entrada inválida debe persistirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Update
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_Parcial(t *testing.T) {
	repo := newProductRepoFake(&entity.Product{
		ID: "p1", Name: "Tornillos", Description: "caja x100", Quantity: 8, MinStock: 5,
	})
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, nil)

	out, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{
		MinStock: i64Ptr(20),
	})
	require.NoError(t, err)

	assert.Equal(t, "Tornillos", out.Name, "los campos no enviados no cambian")
	assert.Equal(t, int64(20), out.MinStock)
	assert.Equal(t, int64(8), out.Quantity, "update nunca toca el saldo")
	assert.True(t, out.LowStock, "8 < 20 tras subir el umbral")
}

func TestProductUpdate_NoExiste(t *testing.T) {
	uc := usecase.NewProductUseCase(newProductRepoFake(), &movementRepoFake{}, nil)

	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{
		Name: strPtr("Nuevo"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdate_RechazaNombreVacio(t *testing.T) {
	repo := newProductRepoFake(&entity.Product{ID: "p1", Name: "Tornillos"})
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, nil)

	_, err := uc.Update(context.Background(), "p1", dto.UpdateProductRequest{Name: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Tornillos", repo.products["p1"].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestProductDelete_ConMovimientos_Rechazado(t *testing.T) {
	repo := newProductRepoFake(&entity.Product{ID: "p1", Name: "Tornillos"})
	movRepo := &movementRepoFake{movements: []*entity.Movement{
		{ID: "m1", ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 5},
	}}
	uc := usecase.NewProductUseCase(repo, movRepo, nil)

	err := uc.Delete(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrConflict,
		"un producto con historial no puede borrarse: dejaría el libro sin referente")
	assert.Contains(t, repo.products, "p1")
}

func TestProductDelete_SinMovimientos_OK(t *testing.T) {
	repo := newProductRepoFake(&entity.Product{ID: "p1", Name: "Tornillos"})
	cache := &alertCacheFake{}
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, cache)

	require.NoError(t, uc.Delete(context.Background(), "p1"))
	assert.NotContains(t, repo.products, "p1")
	assert.Equal(t, 1, cache.invalidations)
}

func TestProductDelete_MovimientoEntreChequeoYBorrado_Conflict(t *testing.T) {
	// El chequeo de movimientos pasa limpio, pero un movimiento concurrente entra
	// antes del DELETE: el repositorio traduce la FK a ErrConflict y el caso de
	// uso lo propaga igual que cuando el chequeo lo detecta a tiempo.
	repo := newProductRepoFake(&entity.Product{ID: "p1", Name: "Tornillos"})
	repo.deleteErr = fmt.Errorf("%w: el producto tiene movimientos registrados", domain.ErrConflict)
	cache := &alertCacheFake{}
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, cache)

	err := uc.Delete(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, repo.products, "p1")
	assert.Zero(t, cache.invalidations, "un borrado fallido no invalida la cache de alertas")
}

func TestProductDelete_NoExiste(t *testing.T) {
	uc := usecase.NewProductUseCase(newProductRepoFake(), &movementRepoFake{}, nil)
	assert.ErrorIs(t, uc.Delete(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests List / Search
// ──────────────────────────────────────────────────────────────────────────────

func TestProductList_OrdenAlfabetico(t *testing.T) {
	repo := newProductRepoFake(
		&entity.Product{ID: "p1", Name: "Tuercas"},
		&entity.Product{ID: "p2", Name: "Arandelas"},
		&entity.Product{ID: "p3", Name: "Clavos"},
	)
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, nil)

	out := uc.List()
	require.Len(t, out.Items, 3)
	assert.Equal(t, "Arandelas", out.Items[0].Name)
	assert.Equal(t, "Clavos", out.Items[1].Name)
	assert.Equal(t, "Tuercas", out.Items[2].Name)
	assert.Equal(t, 3, out.Total)
}

func TestProductList_DegradaAListaVaciaSiFallaLaBD(t *testing.T) {
	repo := newProductRepoFake(&entity.Product{ID: "p1", Name: "Tuercas"})
	repo.failReads = true
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, nil)

	out := uc.List()
	require.NotNil(t, out)
	assert.Empty(t, out.Items, "un listado degrada, nunca propaga el error")
}

func TestProductSearch_FiltraPorSubcadena(t *testing.T) {
	repo := newProductRepoFake(
		&entity.Product{ID: "p1", Name: "Tornillo M4"},
		&entity.Product{ID: "p2", Name: "Tornillo M6"},
		&entity.Product{ID: "p3", Name: "Tuerca M4"},
	)
	uc := usecase.NewProductUseCase(repo, &movementRepoFake{}, nil)

	out := uc.Search("tornillo")
	require.Len(t, out.Items, 2, "la búsqueda es case-insensitive")
	assert.Equal(t, "Tornillo M4", out.Items[0].Name)

	assert.Empty(t, uc.Search("zzz").Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Movements (historial por producto)
// ──────────────────────────────────────────────────────────────────────────────

func TestProductMovements_HistorialEnOrdenDeInsercion(t *testing.T) {
	repo := newProductRepoFake(&entity.Product{ID: "p1", Name: "Tornillos"})
	movRepo := &movementRepoFake{}
	require.NoError(t, movRepo.Create(&entity.Movement{ID: "m1", ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 10}))
	require.NoError(t, movRepo.Create(&entity.Movement{ID: "m2", ProductID: "p1", Type: entity.MovementTypeSaida, Quantity: 3}))
	require.NoError(t, movRepo.Create(&entity.Movement{ID: "m3", ProductID: "otro", Type: entity.MovementTypeEntrada, Quantity: 1}))
	uc := usecase.NewProductUseCase(repo, movRepo, nil)

	out, err := uc.Movements("p1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2, "solo movimientos del producto pedido")
	assert.Equal(t, "m1", out.Items[0].ID)
	assert.Equal(t, "m2", out.Items[1].ID)
	assert.Equal(t, 50, out.Page.Limit, "límite por defecto")
}

func TestProductMovements_ProductoInexistente(t *testing.T) {
	uc := usecase.NewProductUseCase(newProductRepoFake(), &movementRepoFake{}, nil)
	_, err := uc.Movements("no-existe", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductMovements_DegradaSiFallaElListado(t *testing.T) {
	repo := newProductRepoFake(&entity.Product{ID: "p1", Name: "Tornillos"})
	movRepo := &movementRepoFake{failReads: true}
	uc := usecase.NewProductUseCase(repo, movRepo, nil)

	out, err := uc.Movements("p1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}
