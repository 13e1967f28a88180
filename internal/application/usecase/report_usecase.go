package usecase

import (
	"context"
	"time"

	"github.com/ferrecentro/inventario-api/internal/application/dto"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

// ReportUseCase reportes de solo lectura: stock crítico, ganancias del día,
// ventas por vendedor y más vendidos. No abren transacción ni mutan estado.
type ReportUseCase struct {
	reportRepo        repository.ReportRepository
	criticalThreshold int
}

// NewReportUseCase construye el caso de uso con el umbral de stock crítico.
func NewReportUseCase(reportRepo repository.ReportRepository, criticalThreshold int) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo, criticalThreshold: criticalThreshold}
}

// CriticalStock productos en o por debajo del umbral, con unidades faltantes
// e inversión estimada de reposición.
func (uc *ReportUseCase) CriticalStock(ctx context.Context) ([]dto.CriticalStockItemDTO, error) {
	items, err := uc.reportRepo.CriticalStock(ctx, uc.criticalThreshold)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CriticalStockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CriticalStockItemDTO{
			ProductID:           it.ProductID,
			Codigo:              it.Codigo,
			Nombre:              it.Nombre,
			StockActual:         it.StockActual,
			UnidadesFaltantes:   it.UnidadesFaltantes,
			InversionReposicion: it.InversionReposicion,
		})
	}
	return out, nil
}

// DailyProfit resumen de ventas y utilidad del día actual.
func (uc *ReportUseCase) DailyProfit(ctx context.Context) (*dto.DailyProfitDTO, error) {
	p, err := uc.reportRepo.DailyProfit(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DailyProfitDTO{
		TotalVentas:     p.TotalVentas,
		IngresosTotales: p.IngresosTotales,
		CostoMercancia:  p.CostoMercancia,
		UtilidadNeta:    p.UtilidadNeta,
	}, nil
}

// SalesBySeller ventas por vendedor en el rango [from, to] (comisiones).
func (uc *ReportUseCase) SalesBySeller(ctx context.Context, from, to time.Time) ([]dto.SellerSalesDTO, error) {
	rows, err := uc.reportRepo.SalesBySeller(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SellerSalesDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SellerSalesDTO{
			UserID:            r.UserID,
			Vendedor:          r.Vendedor,
			CantidadVentas:    r.CantidadVentas,
			TotalVentasBrutas: r.TotalVentasBrutas,
		})
	}
	return out, nil
}

// TopProducts los 5 productos con mayor recaudación histórica.
func (uc *ReportUseCase) TopProducts(ctx context.Context) ([]dto.TopProductDTO, error) {
	rows, err := uc.reportRepo.TopProducts(ctx, 5)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{
			Producto:         r.Producto,
			UnidadesVendidas: r.UnidadesVendidas,
			TotalRecaudado:   r.TotalRecaudado,
		})
	}
	return out, nil
}
