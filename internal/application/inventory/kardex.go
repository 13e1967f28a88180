package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	domaininv "github.com/ferrecentro/inventario-api/internal/domain/inventory"
)

// KardexEntry un movimiento del Kardex con saldos calculados, etiqueta de
// dirección y descripción legible derivada de su referencia tipada.
type KardexEntry struct {
	Movement    entity.KardexMovement
	Direction   string
	Before      decimal.Decimal
	After       decimal.Decimal
	Description string
}

// KardexResult reconstrucción completa del Kardex de un producto.
type KardexResult struct {
	Product      *entity.Product
	CurrentStock decimal.Decimal
	Entries      []KardexEntry
}

// Kardex reconstruye la historia de saldos de un producto: carga el stock
// actual (sumado sobre depósitos) y todos los movimientos en orden
// cronológico, y recorre hacia adelante desde el ancla cero. Es de solo
// lectura e idempotente: dos reconstrucciones seguidas dan lo mismo.
//
// Stock y movimientos se leen del mismo snapshot (transacción de solo
// lectura): una venta que confirme entre ambas lecturas no puede hacer que
// una historia intacta parezca corrupta.
//
// Si el saldo final no cierra contra el stock actual devuelve
// KardexMismatchError: historia corrupta se reporta, no se muestra.
func (c *Coordinator) Kardex(ctx context.Context, productID int64) (*KardexResult, error) {
	var (
		product   *entity.Product
		current   decimal.Decimal
		movements []entity.KardexMovement
	)
	err := c.txRunner.RunReadOnly(ctx, func(r TxRepos) error {
		var err error
		product, err = r.Products.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: el producto %d no existe", domain.ErrNotFound, productID)
		}
		if current, err = r.Stock.TotalByProduct(productID); err != nil {
			return err
		}
		movements, err = r.Movements.ListForKardex(productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	plain := make([]entity.Movement, len(movements))
	for i, m := range movements {
		plain[i] = m.Movement
	}
	balances, err := domaininv.Reconstruct(productID, plain, current)
	if err != nil {
		return nil, err
	}

	entries := make([]KardexEntry, len(movements))
	for i, m := range movements {
		entries[i] = KardexEntry{
			Movement:    m,
			Direction:   m.Direction(),
			Before:      balances[i].Before,
			After:       balances[i].After,
			Description: describeMovement(m),
		}
	}
	return &KardexResult{Product: product, CurrentStock: current, Entries: entries}, nil
}

// describeMovement arma la descripción legible según la referencia tipada.
func describeMovement(m entity.KardexMovement) string {
	switch m.Ref.Kind {
	case entity.RefVenta:
		if m.Ref.ID != nil {
			return fmt.Sprintf("Venta #%d - Cliente: %s", *m.Ref.ID, counterpartyOr(m, "desconocido"))
		}
	case entity.RefCompra:
		if m.Ref.ID != nil {
			return fmt.Sprintf("Compra #%d - Proveedor: %s", *m.Ref.ID, counterpartyOr(m, "desconocido"))
		}
	}
	return m.Comment
}

func counterpartyOr(m entity.KardexMovement, fallback string) string {
	if m.CounterpartyName != "" {
		return m.CounterpartyName
	}
	return fallback
}
