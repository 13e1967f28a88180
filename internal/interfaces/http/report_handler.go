package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ferrecentro/inventario-api/internal/application/usecase"
	"github.com/ferrecentro/inventario-api/internal/domain"
)

// ReportHandler reportes de solo lectura sobre el estado del inventario.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// CriticalStock godoc
// @Summary      Productos en stock crítico
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CriticalStockItemDTO
// @Router       /api/reportes/stock-critico [get]
func (h *ReportHandler) CriticalStock(c *fiber.Ctx) error {
	out, err := h.uc.CriticalStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DailyProfit godoc
// @Summary      Ganancias del día
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DailyProfitDTO
// @Router       /api/reportes/ganancias-dia [get]
func (h *ReportHandler) DailyProfit(c *fiber.Ctx) error {
	out, err := h.uc.DailyProfit(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SalesBySeller godoc
// @Summary      Ventas por vendedor en un rango de fechas
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        hasta  query  string  true  "Fecha final (YYYY-MM-DD)"
// @Success      200    {array}  dto.SellerSalesDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reportes/ventas-vendedor [get]
func (h *ReportHandler) SalesBySeller(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("desde"))
	if err != nil {
		return respondError(c, fmt.Errorf("%w: desde debe ser YYYY-MM-DD", domain.ErrInvalidInput))
	}
	to, err := time.Parse("2006-01-02", c.Query("hasta"))
	if err != nil {
		return respondError(c, fmt.Errorf("%w: hasta debe ser YYYY-MM-DD", domain.ErrInvalidInput))
	}
	// Rango inclusivo: el límite superior es el inicio del día siguiente.
	out, err := h.uc.SalesBySeller(c.UserContext(), from, to.AddDate(0, 0, 1))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos por recaudación
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TopProductDTO
// @Router       /api/reportes/mas-vendidos [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
