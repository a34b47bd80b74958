package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventorySummary agregados del inventario para el dashboard.
type InventorySummary struct {
	TotalProducts  int64
	TotalUnits     int64
	LowStockCount  int64
	InventoryValue decimal.Decimal // Σ quantity * unit_price
}

// RecentMovement movimiento reciente con el nombre del producto resuelto.
type RecentMovement struct {
	ID          string
	ProductID   string
	ProductName string
	Type        string
	Quantity    int64
	UserID      string
	CreatedAt   time.Time
}

// StatsRepository define el puerto de consultas agregadas (dashboard).
type StatsRepository interface {
	GetInventorySummary(ctx context.Context) (*InventorySummary, error)
	ListRecentMovements(ctx context.Context, limit int) ([]RecentMovement, error)
}
