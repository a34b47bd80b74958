package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almoxarifado-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas agregadas del inventario (dashboard).
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// GetInventorySummary devuelve totales de productos, unidades, alertas de bajo
// stock y la valorización del inventario (Σ quantity * unit_price).
func (r *StatsRepo) GetInventorySummary(ctx context.Context) (*repository.InventorySummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COUNT(*) FILTER (WHERE quantity < min_stock),
			COALESCE(SUM(quantity * unit_price), 0)
		FROM products`
	var s repository.InventorySummary
	err := r.q.QueryRow(ctx, query).Scan(
		&s.TotalProducts, &s.TotalUnits, &s.LowStockCount, &s.InventoryValue,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}
	return &s, nil
}

// ListRecentMovements devuelve los últimos movimientos con el nombre del producto.
func (r *StatsRepo) ListRecentMovements(ctx context.Context, limit int) ([]repository.RecentMovement, error) {
	query := `
		SELECT m.id, m.product_id, p.name, m.type, m.quantity, COALESCE(m.user_id::text, ''), m.created_at
		FROM movements m
		JOIN products p ON p.id = m.product_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent movements: %w", err)
	}
	defer rows.Close()
	var list []repository.RecentMovement
	for rows.Next() {
		var m repository.RecentMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
