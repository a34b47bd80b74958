package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un ítem del almoxarifado.
// Quantity es un saldo denormalizado: siempre igual a la suma con signo de los
// movimientos del producto. Solo el reconciliador de stock puede modificarlo,
// dentro de la misma transacción que inserta el movimiento.
type Product struct {
	ID          string
	Name        string
	Description string
	Quantity    int64           // saldo actual, nunca negativo
	MinStock    int64           // umbral de alerta de bajo stock
	UnitPrice   decimal.Decimal // precio unitario de referencia (solo valorización)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el producto está bajo el umbral mínimo (quantity < minStock).
func (p *Product) IsLowStock() bool {
	return p.Quantity < p.MinStock
}
