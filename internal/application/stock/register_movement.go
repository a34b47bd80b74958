package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almoxarifado-api/internal/domain"
	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
	"github.com/jhoicas/almoxarifado-api/internal/domain/repository"
)

// RegisterMovementUseCase es el reconciliador de stock: el único punto del sistema
// autorizado a modificar Product.Quantity. Inserta la línea del libro y actualiza
// el saldo dentro de la misma transacción, con bloqueo de fila (SELECT FOR UPDATE)
// para serializar movimientos concurrentes sobre el mismo producto.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	cache       LowStockCache
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	cache LowStockCache,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		cache:       cache,
	}
}

// MovementInputDTO entrada para registrar un movimiento de stock.
type MovementInputDTO struct {
	ProductID string
	Type      string // entrada | saída
	Quantity  int64
	UserID    string
}

// RegisterMovement valida la entrada, abre la transacción, bloquea la fila del
// producto, verifica que una saída no deje el saldo en negativo, inserta el
// movimiento y escribe el nuevo saldo. Commit si todo ok, Rollback si algo falla:
// nunca queda un movimiento sin su ajuste de saldo ni un ajuste sin movimiento.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if !entity.ValidMovementType(input.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, input.Type)
	}
	if input.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	// El usuario que registra es obligatorio: cada línea del libro queda firmada.
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user_id requerido", domain.ErrInvalidInput)
	}

	// Verificación rápida de existencia antes de abrir la transacción.
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Type:      input.Type,
		Quantity:  input.Quantity,
		UserID:    input.UserID,
		CreatedAt: time.Now(),
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto: el saldo leído aquí es el vigente
		// hasta el commit, no una lectura obsoleta.
		locked, err := productRepo.GetByIDForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}

		newQuantity := locked.Quantity + mov.Signed()
		if newQuantity < 0 {
			return &domain.StockError{
				ProductID: locked.ID,
				Available: locked.Quantity,
				Requested: input.Quantity,
			}
		}

		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return productRepo.UpdateQuantity(locked.ID, newQuantity)
	})
	if err != nil {
		return nil, err
	}

	// El saldo cambió: la lista de bajo stock cacheada deja de ser válida.
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	return mov, nil
}
