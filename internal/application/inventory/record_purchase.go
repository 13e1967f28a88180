package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/application/dto"
	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	domaininv "github.com/ferrecentro/inventario-api/internal/domain/inventory"
)

// PurchaseLineInput línea de compra ya validada en tipos.
type PurchaseLineInput struct {
	ProductID     int64
	Quantity      decimal.Decimal
	CostoUnitario decimal.Decimal
}

// PurchaseInput entrada para RecordPurchase.
type PurchaseInput struct {
	SupplierID    int64
	Total         decimal.Decimal
	MetodoPago    string
	NumeroFactura string
	Lines         []PurchaseLineInput
}

// RecordPurchaseFromRequest adapta el request HTTP al caso de uso RecordPurchase.
func (c *Coordinator) RecordPurchaseFromRequest(ctx context.Context, in dto.PurchaseRequest) (int64, error) {
	input := PurchaseInput{
		SupplierID:    in.SupplierID,
		Total:         in.Total,
		MetodoPago:    in.MetodoPago,
		NumeroFactura: in.NumeroFactura,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, PurchaseLineInput(l))
	}
	return c.RecordPurchase(ctx, input)
}

// RecordPurchase registra una compra como unidad atómica: inserta cabecera y
// líneas, incrementa stock del depósito principal bajo bloqueo de fila,
// actualiza el costo del producto al último costo de compra y agrega un
// movimiento de entrada por línea. Las compras no tienen chequeo de stock
// negativo. Devuelve el id de la compra generada.
func (c *Coordinator) RecordPurchase(ctx context.Context, in PurchaseInput) (int64, error) {
	if in.SupplierID <= 0 {
		return 0, fmt.Errorf("%w: proveedor_id es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return 0, fmt.Errorf("%w: la compra no tiene detalles", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.ProductID <= 0 || !l.Quantity.GreaterThan(decimal.Zero) || l.CostoUnitario.IsNegative() {
			return 0, fmt.Errorf("%w: cada detalle requiere producto_id, cantidad positiva y costo no negativo", domain.ErrInvalidInput)
		}
	}

	metodoPago := in.MetodoPago
	if metodoPago == "" {
		metodoPago = "Efectivo"
	}
	numeroFactura := in.NumeroFactura
	if numeroFactura == "" {
		numeroFactura = fmt.Sprintf("COMP-INT-%d", time.Now().UnixMilli())
	}

	batchID := uuid.New().String()
	var purchaseID int64

	err := c.txRunner.Run(ctx, func(r TxRepos) error {
		supplier, err := r.Parties.GetSupplier(in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: el proveedor %d no existe", domain.ErrNotFound, in.SupplierID)
		}

		purchase := &entity.Purchase{
			SupplierID:    in.SupplierID,
			Total:         in.Total,
			MetodoPago:    metodoPago,
			NumeroFactura: numeroFactura,
		}
		if err := r.Purchases.CreateHeader(purchase); err != nil {
			return err
		}
		purchaseID = purchase.ID

		lines := sortByLockOrder(in.Lines, func(l PurchaseLineInput) lockKey {
			return lockKey{productID: l.ProductID, warehouseID: entity.WarehousePrincipal}
		})
		for _, line := range lines {
			product, err := r.Products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: el producto %d no existe", domain.ErrNotFound, line.ProductID)
			}

			if err := r.Purchases.CreateLine(&entity.PurchaseLine{
				PurchaseID:    purchaseID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				CostoUnitario: line.CostoUnitario,
				Subtotal:      line.Quantity.Mul(line.CostoUnitario),
			}); err != nil {
				return err
			}

			// Último costo: el costo del producto refleja la compra más reciente
			newCost := domaininv.LastCost(product.PrecioCosto, line.CostoUnitario)
			if err := r.Products.UpdateCost(line.ProductID, newCost); err != nil {
				return err
			}

			if _, err := r.Stock.EnsureAndLock(line.ProductID, entity.WarehousePrincipal); err != nil {
				return err
			}
			if err := r.Stock.ApplyDelta(line.ProductID, entity.WarehousePrincipal, line.Quantity); err != nil {
				return err
			}

			refID := purchaseID
			if err := r.Movements.Append(&entity.Movement{
				BatchID:     batchID,
				ProductID:   line.ProductID,
				WarehouseID: entity.WarehousePrincipal,
				Type:        entity.MovementTypeCompra,
				Quantity:    line.Quantity,
				Ref:         entity.MovementRef{Kind: entity.RefCompra, ID: &refID},
				Comment:     fmt.Sprintf("Entrada por factura: %s. Costo actualizado a %s", numeroFactura, newCost.String()),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purchaseID, nil
}
