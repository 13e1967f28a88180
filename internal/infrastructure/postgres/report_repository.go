package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas analíticas de solo lectura. Corre directo sobre el
// pool, sin transacción: lecturas eventualmente consistentes son aceptables
// para reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// CriticalStock lista productos cuyo stock en el depósito principal está en
// o por debajo del umbral, con la inversión necesaria para reponer.
func (r *ReportRepo) CriticalStock(ctx context.Context, threshold int) ([]repository.CriticalStockItem, error) {
	query := `
		SELECT p.id, p.codigo, p.nombre,
			COALESCE(s.cantidad, 0) AS stock_actual,
			($2 - COALESCE(s.cantidad, 0)) AS unidades_faltantes,
			($2 - COALESCE(s.cantidad, 0)) * p.precio_costo AS inversion
		FROM productos p
		LEFT JOIN stock_depositos s ON s.id_producto = p.id AND s.id_deposito = 1
		WHERE COALESCE(s.cantidad, 0) <= $1
		ORDER BY stock_actual ASC, p.nombre ASC`
	rows, err := r.q.Query(ctx, query, threshold, threshold)
	if err != nil {
		return nil, fmt.Errorf("critical stock report: %w", err)
	}
	defer rows.Close()

	var list []repository.CriticalStockItem
	for rows.Next() {
		var item repository.CriticalStockItem
		if err := rows.Scan(&item.ProductID, &item.Codigo, &item.Nombre,
			&item.StockActual, &item.UnidadesFaltantes, &item.InversionReposicion); err != nil {
			return nil, fmt.Errorf("scan critical stock: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// DailyProfit resume las ventas del día: ingresos, costo de la mercancía
// vendida al costo vigente y utilidad neta.
func (r *ReportRepo) DailyProfit(ctx context.Context) (*repository.DailyProfit, error) {
	query := `
		SELECT
			COUNT(DISTINCT v.id) AS total_ventas,
			COALESCE(SUM(d.cantidad * d.precio_unitario), 0) AS ingresos,
			COALESCE(SUM(d.cantidad * p.precio_costo), 0) AS costo,
			COALESCE(SUM(d.cantidad * (d.precio_unitario - p.precio_costo)), 0) AS utilidad
		FROM ventas v
		JOIN detalle_ventas d ON d.id_venta = v.id
		JOIN productos p ON p.id = d.id_producto
		WHERE v.fecha_venta::date = CURRENT_DATE`
	var rep repository.DailyProfit
	err := r.q.QueryRow(ctx, query).Scan(
		&rep.TotalVentas, &rep.IngresosTotales, &rep.CostoMercancia, &rep.UtilidadNeta)
	if err != nil {
		return nil, fmt.Errorf("daily profit report: %w", err)
	}
	return &rep, nil
}

// SalesBySeller acumula ventas por vendedor en el rango [from, to] (comisiones).
func (r *ReportRepo) SalesBySeller(ctx context.Context, from, to time.Time) ([]repository.SellerSales, error) {
	query := `
		SELECT u.id, u.nombre, COUNT(v.id) AS cantidad, COALESCE(SUM(v.total), 0) AS total
		FROM ventas v
		JOIN usuarios u ON u.id = v.id_usuario
		WHERE v.fecha_venta >= $1 AND v.fecha_venta < $2
		GROUP BY u.id, u.nombre
		ORDER BY total DESC`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by seller report: %w", err)
	}
	defer rows.Close()

	var list []repository.SellerSales
	for rows.Next() {
		var item repository.SellerSales
		if err := rows.Scan(&item.UserID, &item.Vendedor,
			&item.CantidadVentas, &item.TotalVentasBrutas); err != nil {
			return nil, fmt.Errorf("scan seller sales: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// TopProducts lista los productos más vendidos por recaudación histórica.
func (r *ReportRepo) TopProducts(ctx context.Context, limit int) ([]repository.TopProduct, error) {
	query := `
		SELECT p.nombre,
			COALESCE(SUM(d.cantidad), 0) AS unidades,
			COALESCE(SUM(d.cantidad * d.precio_unitario), 0) AS recaudado
		FROM detalle_ventas d
		JOIN productos p ON p.id = d.id_producto
		GROUP BY p.id, p.nombre
		ORDER BY recaudado DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top products report: %w", err)
	}
	defer rows.Close()

	var list []repository.TopProduct
	for rows.Next() {
		var item repository.TopProduct
		if err := rows.Scan(&item.Producto, &item.UnidadesVendidas, &item.TotalRecaudado); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
