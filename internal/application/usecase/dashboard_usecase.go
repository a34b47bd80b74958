package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/almoxarifado-api/internal/application/dto"
	"github.com/jhoicas/almoxarifado-api/internal/domain/repository"
)

// recentMovementsLimit movimientos mostrados en el dashboard.
const recentMovementsLimit = 10

// DashboardUseCase arma el resumen del almoxarifado para la pantalla principal.
type DashboardUseCase struct {
	statsRepo repository.StatsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(statsRepo repository.StatsRepository) *DashboardUseCase {
	return &DashboardUseCase{statsRepo: statsRepo}
}

// GetDashboard devuelve totales del inventario, valorización y movimientos recientes.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	summary, err := uc.statsRepo.GetInventorySummary(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := uc.statsRepo.ListRecentMovements(ctx, recentMovementsLimit)
	if err != nil {
		// El resumen sigue siendo útil sin la lista de recientes.
		log.Warn().Err(err).Msg("dashboard: movimientos recientes no disponibles")
		recent = nil
	}

	movements := make([]dto.RecentMovementDTO, 0, len(recent))
	for _, m := range recent {
		movements = append(movements, dto.RecentMovementDTO{
			ID:          m.ID,
			ProductID:   m.ProductID,
			ProductName: m.ProductName,
			Type:        m.Type,
			Quantity:    m.Quantity,
			UserID:      m.UserID,
			CreatedAt:   m.CreatedAt,
		})
	}

	return &dto.DashboardResponse{
		TotalProducts:   summary.TotalProducts,
		TotalUnits:      summary.TotalUnits,
		LowStockCount:   summary.LowStockCount,
		InventoryValue:  summary.InventoryValue,
		RecentMovements: movements,
	}, nil
}
