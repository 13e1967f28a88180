package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
)

// Balance es el saldo alrededor de un movimiento del Kardex.
type Balance struct {
	Before decimal.Decimal
	After  decimal.Decimal
}

// Reconstruct recorre los movimientos de un producto en orden cronológico
// (el más antiguo primero) y calcula saldo-antes y saldo-después de cada uno,
// partiendo del ancla cero: toda fila de stock nace en cero, por lo que el
// saldo inicial reconstruible es siempre cero.
//
// El saldo final debe cerrar contra currentStock (cantidad actual del libro
// sumada sobre depósitos). Un descuadre significa historia corrupta y se
// devuelve como KardexMismatchError en lugar de mostrar números dudosos.
func Reconstruct(productID int64, movements []entity.Movement, currentStock decimal.Decimal) ([]Balance, error) {
	balances := make([]Balance, len(movements))
	running := decimal.Zero
	for i, m := range movements {
		balances[i].Before = running
		running = running.Add(m.Quantity)
		balances[i].After = running
	}
	if !running.Equal(currentStock) {
		return nil, &domain.KardexMismatchError{
			ProductID: productID,
			Computed:  running,
			Current:   currentStock,
		}
	}
	return balances, nil
}
