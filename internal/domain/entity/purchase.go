package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de compra a proveedor. Inmutable después de creada.
type Purchase struct {
	ID            int64
	SupplierID    int64
	Total         decimal.Decimal
	MetodoPago    string
	NumeroFactura string // referencia de factura del proveedor (autogenerada si falta)
	CreatedAt     time.Time
}

// PurchaseLine línea de detalle de una compra.
type PurchaseLine struct {
	ID            int64
	PurchaseID    int64
	ProductID     int64
	Quantity      decimal.Decimal
	CostoUnitario decimal.Decimal
	Subtotal      decimal.Decimal
}
