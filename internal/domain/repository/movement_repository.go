package repository

import "github.com/jhoicas/almoxarifado-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia para el libro de movimientos.
// El libro es append-only: no hay Update ni Delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// ListByProduct devuelve el historial del producto ordenado por created_at
	// ascendente (orden de inserción).
	ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error)
	// ExistsByProduct indica si el producto tiene al menos un movimiento registrado.
	ExistsByProduct(productID string) (bool, error)
}
