package inventory

import (
	"context"

	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Movements   repository.MovementRepository
	Stock       repository.StockRepository
	Products    repository.ProductRepository
	Sales       repository.SaleRepository
	Purchases   repository.PurchaseRepository
	Adjustments repository.AdjustmentRepository
	Users       repository.UserRepository
	Parties     repository.PartyRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Si fn devuelve error se hace Rollback; si no,
// Commit. Garantiza la atomicidad del motor de inventario: cabecera, líneas,
// deltas de stock y movimientos se confirman o descartan como una unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
	// RunReadOnly ejecuta fn en una transacción de solo lectura con snapshot
	// estable: todas las lecturas dentro de fn ven el mismo estado confirmado
	// aunque otras transacciones hagan commit en el medio.
	RunReadOnly(ctx context.Context, fn func(r TxRepos) error) error
}
