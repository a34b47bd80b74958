package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxarifado-api/internal/application/dto"
	"github.com/jhoicas/almoxarifado-api/internal/application/stock"
	"github.com/jhoicas/almoxarifado-api/internal/domain"
	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
	"github.com/jhoicas/almoxarifado-api/internal/domain/repository"
	apphttp "github.com/jhoicas/almoxarifado-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (solo lo que el handler de stock necesita)
// ──────────────────────────────────────────────────────────────────────────────

type stubStore struct {
	products  map[string]*entity.Product
	movements []*entity.Movement
}

type stubProductRepo struct{ s *stubStore }

func (r *stubProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *stubProductRepo) Update(p *entity.Product) error { return nil }

func (r *stubProductRepo) UpdateQuantity(id string, quantity int64) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *stubProductRepo) List() ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) Search(term string) ([]*entity.Product, error) {
	all, _ := r.List()
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	all, _ := r.List()
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

type stubMovementRepo struct{ s *stubStore }

func (r *stubMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *stubMovementRepo) GetByID(id string) (*entity.Movement, error) { return nil, nil }

func (r *stubMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error) {
	return nil, nil
}

func (r *stubMovementRepo) ExistsByProduct(productID string) (bool, error) {
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

type stubTxRunner struct{ s *stubStore }

func (tr *stubTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	movCount := len(tr.s.movements)
	snapshot := make(map[string]int64, len(tr.s.products))
	for id, p := range tr.s.products {
		snapshot[id] = p.Quantity
	}
	if err := fn(&stubMovementRepo{tr.s}, &stubProductRepo{tr.s}); err != nil {
		for id, q := range snapshot {
			if p, ok := tr.s.products[id]; ok {
				p.Quantity = q
			}
		}
		tr.s.movements = tr.s.movements[:movCount]
		return err
	}
	return nil
}

// buildStockApp monta las rutas de stock con auth real y repos fake.
func buildStockApp(s *stubStore) *fiber.App {
	productRepo := &stubProductRepo{s}
	registerUC := stock.NewRegisterMovementUseCase(&stubTxRunner{s}, productRepo, nil)
	lowStockUC := stock.NewLowStockUseCase(productRepo, nil)
	handler := apphttp.NewStockHandler(registerUC, lowStockUC, nil)

	app := fiber.New()
	grp := app.Group("/api/stock", apphttp.AuthMiddleware(testJWTSecret))
	grp.Post("/movements", handler.RegisterMovement)
	grp.Get("/low-stock", handler.LowStock)
	return app
}

func postMovement(t *testing.T, app *fiber.App, body dto.RegisterMovementRequest) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/stock/movements", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAlmoxarife))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests POST /api/stock/movements
// ──────────────────────────────────────────────────────────────────────────────

func TestStockHandler_RegistrarEntrada_201(t *testing.T) {
	s := &stubStore{products: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Tornillos", Quantity: 10, MinStock: 5},
	}}
	app := buildStockApp(s)

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 5,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.MovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, entity.MovementTypeEntrada, out.Type)
	assert.Equal(t, testUserID, out.UserID, "la línea queda firmada con el usuario del token")
	assert.Equal(t, int64(15), s.products["p1"].Quantity)
}

func TestStockHandler_SaidaInsuficiente_409ConDisponible(t *testing.T) {
	s := &stubStore{products: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Tornillos", Quantity: 3, MinStock: 5},
	}}
	app := buildStockApp(s)

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "p1", Type: entity.MovementTypeSaida, Quantity: 8,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	require.NotNil(t, out.Available, "el 409 debe informar el disponible")
	assert.Equal(t, int64(3), *out.Available)
	assert.Equal(t, int64(3), s.products["p1"].Quantity, "el saldo no cambia tras el rechazo")
}

func TestStockHandler_TipoInvalido_400(t *testing.T) {
	s := &stubStore{products: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Tornillos", Quantity: 3, MinStock: 5},
	}}
	app := buildStockApp(s)

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "p1", Type: "ajuste", Quantity: 1,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestStockHandler_ProductoInexistente_404(t *testing.T) {
	s := &stubStore{products: map[string]*entity.Product{}}
	app := buildStockApp(s)

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "no-existe", Type: entity.MovementTypeEntrada, Quantity: 1,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStockHandler_SinToken_401(t *testing.T) {
	s := &stubStore{products: map[string]*entity.Product{}}
	app := buildStockApp(s)

	req := httptest.NewRequest(http.MethodPost, "/api/stock/movements", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests GET /api/stock/low-stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStockHandler_LowStock_ListaOrdenada(t *testing.T) {
	s := &stubStore{products: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Tuercas", Quantity: 2, MinStock: 10},
		"p2": {ID: "p2", Name: "Arandelas", Quantity: 1, MinStock: 5},
		"p3": {ID: "p3", Name: "Tornillos", Quantity: 50, MinStock: 10},
	}}
	app := buildStockApp(s)

	req := httptest.NewRequest(http.MethodGet, "/api/stock/low-stock", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAlmoxarife))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ProductListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Arandelas", out.Items[0].Name)
	assert.Equal(t, "Tuercas", out.Items[1].Name)
	assert.True(t, out.Items[0].LowStock)
}
