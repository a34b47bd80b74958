package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardResponse resumen del almoxarifado para la pantalla principal.
type DashboardResponse struct {
	TotalProducts   int64                 `json:"total_products"`
	TotalUnits      int64                 `json:"total_units"`
	LowStockCount   int64                 `json:"low_stock_count"`
	InventoryValue  decimal.Decimal       `json:"inventory_value"`
	RecentMovements []RecentMovementDTO   `json:"recent_movements"`
}

// RecentMovementDTO movimiento reciente con nombre de producto resuelto.
type RecentMovementDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
