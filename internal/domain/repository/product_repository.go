package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los getters devuelven (nil, nil) si la fila no existe: el caller decide el
// error contextual.
type ProductRepository interface {
	// Create persiste el producto y completa el ID generado.
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	GetByCodigo(codigo string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateCost actualiza solo el costo del producto (motor de inventario,
	// política de último costo).
	UpdateCost(productID int64, cost decimal.Decimal) error
	// List busca por clave normalizada (vacío = todos) con paginación,
	// incluyendo el stock del depósito principal de cada producto.
	List(normalizedQuery string, limit, offset int) ([]ProductWithStock, error)
}

// ProductWithStock producto más su stock en el depósito principal.
type ProductWithStock struct {
	Product        entity.Product
	StockPrincipal decimal.Decimal
}
