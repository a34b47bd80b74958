package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almoxarifado-api/internal/application/dto"
	"github.com/jhoicas/almoxarifado-api/internal/domain"
	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
	"github.com/jhoicas/almoxarifado-api/internal/domain/repository"
)

// AlertCache invalidación del cache de bajo stock tras escrituras de producto
// (interfaz del consumidor; la implementa rediscache.LowStockCache).
type AlertCache interface {
	Invalidate(ctx context.Context)
}

// ProductUseCase casos de uso CRUD para productos. Quantity se maneja solo vía
// movimientos (reconciliador de stock); aquí nunca se toca el saldo.
type ProductUseCase struct {
	repo    repository.ProductRepository
	movRepo repository.MovementRepository
	cache   AlertCache
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movRepo repository.MovementRepository, cache AlertCache) *ProductUseCase {
	return &ProductUseCase{repo: repo, movRepo: movRepo, cache: cache}
}

// Create crea un nuevo producto con quantity = 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if in.MinStock < 0 {
		return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	unitPrice := decimal.Zero
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
		}
		unitPrice = *in.UnitPrice
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Quantity:    0,
		MinStock:    in.MinStock,
		UnitPrice:   unitPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza name, description, min_stock y unit_price.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
		}
		product.MinStock = *in.MinStock
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
		}
		product.UnitPrice = *in.UnitPrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto. Si tiene movimientos registrados se rechaza con
// ErrConflict: borrar el producto dejaría líneas del libro sin referente.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	hasMovements, err := uc.movRepo.ExistsByProduct(id)
	if err != nil {
		return err
	}
	if hasMovements {
		return fmt.Errorf("%w: el producto tiene movimientos registrados", domain.ErrConflict)
	}
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	return nil
}

// List lista todos los productos ordenados por nombre. Si el almacenamiento no
// responde, degrada a lista vacía (las lecturas de listado nunca fallan hacia
// el caller; las mutaciones sí).
func (uc *ProductUseCase) List() *dto.ProductListResponse {
	list, err := uc.repo.List()
	if err != nil {
		log.Warn().Err(err).Msg("listar productos: consulta falló, se devuelve lista vacía")
		return &dto.ProductListResponse{Items: []dto.ProductResponse{}}
	}
	return toProductListResponse(list)
}

// Search busca productos por subcadena de nombre (case-insensitive), ordenados
// por nombre. Degrada a lista vacía ante fallo de almacenamiento.
func (uc *ProductUseCase) Search(term string) *dto.ProductListResponse {
	list, err := uc.repo.Search(term)
	if err != nil {
		log.Warn().Err(err).Str("term", term).Msg("buscar productos: consulta falló, se devuelve lista vacía")
		return &dto.ProductListResponse{Items: []dto.ProductResponse{}}
	}
	return toProductListResponse(list)
}

// Movements devuelve el historial de un producto en orden de inserción
// (created_at ascendente). Producto inexistente → ErrNotFound; fallo del
// listado → degrada a lista vacía.
func (uc *ProductUseCase) Movements(productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	product, err := uc.repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	movements, err := uc.movRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("historial de movimientos: consulta falló, se devuelve lista vacía")
		movements = nil
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			UserID:    m.UserID,
			CreatedAt: m.CreatedAt,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		MinStock:    p.MinStock,
		UnitPrice:   p.UnitPrice,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductListResponse(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}
}
