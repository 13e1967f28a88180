package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de venta. Inmutable después de creada.
type Sale struct {
	ID         int64
	CustomerID int64
	SellerID   int64
	Subtotal   decimal.Decimal
	Impuesto   decimal.Decimal
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// SaleLine línea de detalle de una venta.
type SaleLine struct {
	ID             int64
	SaleID         int64
	ProductID      int64
	Quantity       decimal.Decimal
	PrecioUnitario decimal.Decimal
}
