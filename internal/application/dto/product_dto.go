package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity siempre inicia en 0:
// el stock solo entra por movimientos.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	MinStock    int64            `json:"min_stock"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Quantity:
// el saldo se maneja vía movimientos).
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	MinStock    *int64           `json:"min_stock"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	MinStock    int64           `json:"min_stock"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos (ordenada por nombre ascendente).
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
