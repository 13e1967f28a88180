package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/domain/entity"
)

// StockRepository define el puerto del libro de stock por (producto, depósito).
// Las operaciones de bloqueo solo tienen sentido dentro de una transacción.
type StockRepository interface {
	// Get lee la cantidad actual sin bloquear. Devuelve cantidad cero si la
	// fila no existe (sin crearla).
	Get(productID, warehouseID int64) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y devuelve la cantidad
	// actual; cantidad cero si la fila no existe, sin crearla.
	GetForUpdate(productID, warehouseID int64) (*entity.StockEntry, error)
	// EnsureRow crea la fila en cero si no existe (idempotente).
	EnsureRow(productID, warehouseID int64) error
	// EnsureAndLock garantiza que la fila exista (creándola en cero) y la
	// devuelve bloqueada, todo dentro del mismo alcance de bloqueo.
	EnsureAndLock(productID, warehouseID int64) (*entity.StockEntry, error)
	// ApplyDelta suma delta (posiblemente negativo) a una fila previamente
	// bloqueada en esta transacción. Falla si la fila no existe.
	ApplyDelta(productID, warehouseID int64, delta decimal.Decimal) error
	// TotalByProduct suma el stock del producto sobre todos los depósitos.
	TotalByProduct(productID int64) (decimal.Decimal, error)
	// ListByProduct devuelve las filas de stock del producto por depósito.
	ListByProduct(productID int64) ([]*entity.StockEntry, error)
}
