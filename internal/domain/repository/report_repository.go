package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CriticalStockItem producto en o por debajo del umbral de stock crítico.
type CriticalStockItem struct {
	ProductID           int64
	Codigo              string
	Nombre              string
	StockActual         decimal.Decimal
	UnidadesFaltantes   decimal.Decimal
	InversionReposicion decimal.Decimal // unidades faltantes × precio costo
}

// DailyProfit resumen de ventas y utilidad del día.
type DailyProfit struct {
	TotalVentas     int64
	IngresosTotales decimal.Decimal
	CostoMercancia  decimal.Decimal
	UtilidadNeta    decimal.Decimal
}

// SellerSales ventas acumuladas por vendedor en un rango (comisiones).
type SellerSales struct {
	UserID            int64
	Vendedor          string
	CantidadVentas    int64
	TotalVentasBrutas decimal.Decimal
}

// TopProduct producto más vendido por recaudación.
type TopProduct struct {
	Producto         string
	UnidadesVendidas decimal.Decimal
	TotalRecaudado   decimal.Decimal
}

// ReportRepository consultas de solo lectura: no abren transacción ni
// mutan estado, por eso viven fuera del coordinador transaccional.
type ReportRepository interface {
	CriticalStock(ctx context.Context, threshold int) ([]CriticalStockItem, error)
	DailyProfit(ctx context.Context) (*DailyProfit, error)
	SalesBySeller(ctx context.Context, from, to time.Time) ([]SellerSales, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
}
