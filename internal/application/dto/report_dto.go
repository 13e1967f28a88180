package dto

import "github.com/shopspring/decimal"

// CriticalStockItemDTO fila del reporte de stock crítico.
type CriticalStockItemDTO struct {
	ProductID           int64           `json:"id"`
	Codigo              string          `json:"codigo"`
	Nombre              string          `json:"nombre"`
	StockActual         decimal.Decimal `json:"stock_actual"`
	UnidadesFaltantes   decimal.Decimal `json:"unidades_faltantes"`
	InversionReposicion decimal.Decimal `json:"inversion_reposicion"`
}

// DailyProfitDTO resumen de ganancias del día.
type DailyProfitDTO struct {
	TotalVentas     int64           `json:"total_ventas"`
	IngresosTotales decimal.Decimal `json:"ingresos_totales"`
	CostoMercancia  decimal.Decimal `json:"costo_mercancia"`
	UtilidadNeta    decimal.Decimal `json:"utilidad_neta"`
}

// SellerSalesDTO fila del reporte de ventas por vendedor.
type SellerSalesDTO struct {
	UserID            int64           `json:"usuario_id"`
	Vendedor          string          `json:"vendedor"`
	CantidadVentas    int64           `json:"cantidad_ventas"`
	TotalVentasBrutas decimal.Decimal `json:"total_ventas_brutas"`
}

// TopProductDTO fila del reporte de más vendidos.
type TopProductDTO struct {
	Producto         string          `json:"producto"`
	UnidadesVendidas decimal.Decimal `json:"unidades_vendidas"`
	TotalRecaudado   decimal.Decimal `json:"total_recaudado"`
}
