package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta entrante.
type SaleLineRequest struct {
	ProductID      int64           `json:"producto_id"`
	Quantity       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// SaleRequest body para POST /api/ventas. Los montos llegan ya calculados
// por el caller (el motor no computa precios ni impuestos).
// PermitirStockNegativo omitido cae al default de configuración.
type SaleRequest struct {
	CustomerID            int64             `json:"cliente_id"`
	SellerID              int64             `json:"vendedor_id"`
	Subtotal              decimal.Decimal   `json:"subtotal"`
	Impuesto              decimal.Decimal   `json:"impuesto"`
	Total                 decimal.Decimal   `json:"total"`
	PermitirStockNegativo *bool             `json:"permitir_stock_negativo,omitempty"`
	Lines                 []SaleLineRequest `json:"detalles"`
}

// SaleResponse respuesta de venta registrada.
type SaleResponse struct {
	SaleID int64 `json:"id_venta"`
}

// PurchaseLineRequest línea de compra entrante.
type PurchaseLineRequest struct {
	ProductID     int64           `json:"producto_id"`
	Quantity      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
}

// PurchaseRequest body para POST /api/compras.
type PurchaseRequest struct {
	SupplierID    int64                 `json:"proveedor_id"`
	Total         decimal.Decimal       `json:"total"`
	MetodoPago    string                `json:"metodo_pago"`
	NumeroFactura string                `json:"numero_factura,omitempty"`
	Lines         []PurchaseLineRequest `json:"detalles"`
}

// PurchaseResponse respuesta de compra registrada.
type PurchaseResponse struct {
	PurchaseID int64 `json:"id_compra"`
}

// AdjustmentLineRequest línea de ajuste. Type es opcional: si falta se
// infiere del signo de la cantidad.
type AdjustmentLineRequest struct {
	ProductID   int64            `json:"producto_id"`
	WarehouseID int64            `json:"deposito_id,omitempty"`
	Quantity    *decimal.Decimal `json:"cantidad"`
	Type        string           `json:"tipo,omitempty"`
}

// AdjustmentRequest body para POST /api/ajustes.
// PermitirStockNegativo omitido cae al default de configuración.
type AdjustmentRequest struct {
	UserID                *int64                  `json:"usuario_id,omitempty"`
	Motivo                string                  `json:"motivo"`
	PermitirStockNegativo *bool                   `json:"permitir_stock_negativo,omitempty"`
	Lines                 []AdjustmentLineRequest `json:"detalles"`
}

// AdjustmentResponse respuesta de ajuste aplicado.
type AdjustmentResponse struct {
	LinesProcessed int `json:"detalles_procesados"`
}

// KardexEntryDTO un movimiento del Kardex con saldos y descripción.
type KardexEntryDTO struct {
	MovementID   int64           `json:"id"`
	Tipo         string          `json:"tipo_movimiento"`
	Operacion    string          `json:"tipo_operacion"` // ENTRADA | SALIDA
	Cantidad     decimal.Decimal `json:"cantidad"`
	StockAntes   decimal.Decimal `json:"stock_antes"`
	StockDespues decimal.Decimal `json:"stock_despues"`
	Descripcion  string          `json:"descripcion"`
	Fecha        time.Time       `json:"fecha_movimiento"`
}

// KardexResponse respuesta de GET /api/productos/:id/kardex.
type KardexResponse struct {
	Producto         ProductResponse  `json:"producto"`
	StockActual      decimal.Decimal  `json:"stock_actual"`
	TotalMovimientos int              `json:"total_movimientos"`
	Movimientos      []KardexEntryDTO `json:"movimientos"`
}
