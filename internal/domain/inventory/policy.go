package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/domain"
)

// Policy encapsula la política de stock para una operación:
// si se permite dejar saldo negativo al descontar mercancía.
type Policy struct {
	AllowNegative bool
}

// CheckWithdrawal valida que se pueda retirar requested unidades teniendo
// available. Con AllowNegative el retiro siempre procede; si no, un faltante
// devuelve InsufficientStockError con el detalle para el caller.
func (p Policy) CheckWithdrawal(productName string, available, requested decimal.Decimal) error {
	if p.AllowNegative {
		return nil
	}
	if available.LessThan(requested) {
		return &domain.InsufficientStockError{
			ProductName: productName,
			Available:   available,
			Requested:   requested,
		}
	}
	return nil
}

// OverrideApplied indica si un retiro solo procedió gracias a AllowNegative
// (se usa para marcar el comentario del movimiento).
func (p Policy) OverrideApplied(available, requested decimal.Decimal) bool {
	return p.AllowNegative && available.LessThan(requested)
}

// LastCost implementa la política de costeo por último costo: el costo del
// producto pasa a ser el costo unitario de la última compra. Cambiarla por
// promedio ponderado alteraría los reportes de utilidad.
func LastCost(_, purchaseCost decimal.Decimal) decimal.Decimal {
	return purchaseCost
}

// IsCritical indica si una cantidad está en o por debajo del umbral de
// stock crítico.
func IsCritical(quantity decimal.Decimal, threshold int) bool {
	return quantity.LessThanOrEqual(decimal.NewFromInt(int64(threshold)))
}
