package repository

import "github.com/ferrecentro/inventario-api/internal/domain/entity"

// MovementRepository define el puerto del registro de movimientos.
// Solo existe Append y lectura: los movimientos son inmutables y constituyen
// la fuente de verdad para auditoría y reconstrucción del Kardex.
type MovementRepository interface {
	// Append inserta un movimiento y completa ID y CreatedAt generados.
	Append(movement *entity.Movement) error
	// ListByProduct devuelve los movimientos del producto en orden
	// cronológico ascendente (fecha, id de inserción).
	ListByProduct(productID int64) ([]entity.Movement, error)
	// ListForKardex es ListByProduct enriquecido con el nombre de la
	// contraparte (cliente o proveedor) de cada referencia.
	ListForKardex(productID int64) ([]entity.KardexMovement, error)
}
