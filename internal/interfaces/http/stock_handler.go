package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxarifado-api/internal/application/dto"
	"github.com/jhoicas/almoxarifado-api/internal/application/stock"
	"github.com/jhoicas/almoxarifado-api/internal/domain"
	"github.com/jhoicas/almoxarifado-api/internal/domain/entity"
)

// LowStockReportGenerator genera el PDF de reposición (lo implementa pdf.MarotoPDFGenerator).
type LowStockReportGenerator interface {
	GenerateLowStockReport(ctx context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error)
}

// StockHandler maneja movimientos de stock y alertas de bajo stock (protegido).
type StockHandler struct {
	registerUC *stock.RegisterMovementUseCase
	lowStockUC *stock.LowStockUseCase
	reportGen  LowStockReportGenerator
}

// NewStockHandler construye el handler.
func NewStockHandler(registerUC *stock.RegisterMovementUseCase, lowStockUC *stock.LowStockUseCase, reportGen LowStockReportGenerator) *StockHandler {
	return &StockHandler{registerUC: registerUC, lowStockUC: lowStockUC, reportGen: reportGen}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock (entrada o saída)
// @Description  Inserta la línea en el libro de movimientos y actualiza el saldo
// @Description  del producto en la misma transacción. Una saída que dejaría el
// @Description  saldo negativo se rechaza con 409 e informa el disponible.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.registerUC.RegisterMovement(c.Context(), stock.MovementInputDTO{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UserID:    GetUserID(c),
	})
	if err != nil {
		var stockErr *domain.StockError
		switch {
		case errors.As(err, &stockErr):
			available := stockErr.Available
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:      "INSUFFICIENT_STOCK",
				Message:   fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", stockErr.Available, stockErr.Requested),
				Available: &available,
			})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		ID:        mov.ID,
		ProductID: mov.ProductID,
		Type:      mov.Type,
		Quantity:  mov.Quantity,
		UserID:    mov.UserID,
		CreatedAt: mov.CreatedAt,
	})
}

// LowStock godoc
// @Summary      Productos bajo stock mínimo (quantity < min_stock), orden alfabético
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/stock/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	products := h.lowStockUC.ListLowStock(c.Context())
	return c.JSON(toLowStockListResponse(products))
}

// LowStockReport godoc
// @Summary      Reporte PDF de reposición de productos bajo stock mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/stock/low-stock/report [get]
func (h *StockHandler) LowStockReport(c *fiber.Ctx) error {
	products := h.lowStockUC.ListLowStock(c.Context())
	generatedAt := time.Now()
	doc, err := h.reportGen.GenerateLowStockReport(c.Context(), products, generatedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="reposicion-%s.pdf"`, generatedAt.Format("2006-01-02")))
	return c.Send(doc)
}

func toLowStockListResponse(products []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Quantity:    p.Quantity,
			MinStock:    p.MinStock,
			UnitPrice:   p.UnitPrice,
			LowStock:    p.IsLowStock(),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}
}
