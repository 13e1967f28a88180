package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la ferretería.
// PrecioCosto se actualiza con cada compra (política de último costo);
// el stock vive en StockEntry por depósito, nunca en el producto.
type Product struct {
	ID                int64
	Codigo            string
	Nombre            string
	NombreNormalizado string // clave de búsqueda sin acentos (textutil.Fold)
	PrecioVenta       decimal.Decimal
	PrecioCosto       decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
