package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/productos.
// El stock inicial siempre es cero; la mercancía entra por compra o ajuste
// para que el Kardex cierre desde el origen.
type CreateProductRequest struct {
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
}

// UpdateProductRequest body para PUT /api/productos/:id.
type UpdateProductRequest struct {
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
}

// ProductResponse representación de un producto en respuestas.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductWithStockResponse producto más su stock por depósito.
type ProductWithStockResponse struct {
	ProductResponse
	StockPrincipal    decimal.Decimal `json:"stock_principal"`
	StockDaniado      decimal.Decimal `json:"stock_danado"`
	StockInmovilizado decimal.Decimal `json:"stock_inmovilizado"`
}
