package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/application/dto"
	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	domaininv "github.com/ferrecentro/inventario-api/internal/domain/inventory"
)

// SaleLineInput línea de venta ya validada en tipos.
type SaleLineInput struct {
	ProductID      int64
	Quantity       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// SaleInput entrada para RecordSale. Subtotal, Impuesto y Total llegan
// calculados por el caller.
type SaleInput struct {
	CustomerID            int64
	SellerID              int64
	Subtotal              decimal.Decimal
	Impuesto              decimal.Decimal
	Total                 decimal.Decimal
	PermitirStockNegativo bool
	Lines                 []SaleLineInput
}

// RecordSaleFromRequest adapta el request HTTP al caso de uso RecordSale.
func (c *Coordinator) RecordSaleFromRequest(ctx context.Context, in dto.SaleRequest) (int64, error) {
	input := SaleInput{
		CustomerID:            in.CustomerID,
		SellerID:              in.SellerID,
		Subtotal:              in.Subtotal,
		Impuesto:              in.Impuesto,
		Total:                 in.Total,
		PermitirStockNegativo: c.allowNegative(in.PermitirStockNegativo),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, SaleLineInput(l))
	}
	return c.RecordSale(ctx, input)
}

// RecordSale registra una venta como unidad atómica: valida vendedor y
// cliente, inserta cabecera y líneas, descuenta stock del depósito principal
// bajo bloqueo de fila y agrega un movimiento por línea. Si una línea no pasa
// la política de stock, la transacción completa se revierte: nunca quedan
// líneas parciales. Devuelve el id de la venta generada.
func (c *Coordinator) RecordSale(ctx context.Context, in SaleInput) (int64, error) {
	// Ids explícitos: un id faltante es error de entrada, no default silencioso
	if in.SellerID <= 0 {
		return 0, fmt.Errorf("%w: vendedor_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.CustomerID <= 0 {
		return 0, fmt.Errorf("%w: cliente_id es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return 0, fmt.Errorf("%w: la venta no tiene detalles", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.ProductID <= 0 || !l.Quantity.GreaterThan(decimal.Zero) {
			return 0, fmt.Errorf("%w: cada detalle requiere producto_id y cantidad positiva", domain.ErrInvalidInput)
		}
	}

	policy := domaininv.Policy{AllowNegative: in.PermitirStockNegativo}
	batchID := uuid.New().String()
	var saleID int64

	err := c.txRunner.Run(ctx, func(r TxRepos) error {
		seller, err := r.Users.GetByID(in.SellerID)
		if err != nil {
			return err
		}
		if seller == nil {
			return fmt.Errorf("%w: el vendedor %d no existe", domain.ErrNotFound, in.SellerID)
		}
		customer, err := r.Parties.GetCustomer(in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return fmt.Errorf("%w: el cliente %d no existe", domain.ErrNotFound, in.CustomerID)
		}

		sale := &entity.Sale{
			CustomerID: in.CustomerID,
			SellerID:   in.SellerID,
			Subtotal:   in.Subtotal,
			Impuesto:   in.Impuesto,
			Total:      in.Total,
		}
		if err := r.Sales.CreateHeader(sale); err != nil {
			return err
		}
		saleID = sale.ID

		lines := sortByLockOrder(in.Lines, func(l SaleLineInput) lockKey {
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

			stock, err := r.Stock.EnsureAndLock(line.ProductID, entity.WarehousePrincipal)
			if err != nil {
				return err
			}
			if err := policy.CheckWithdrawal(product.Nombre, stock.Quantity, line.Quantity); err != nil {
				return err
			}

			if err := r.Sales.CreateLine(&entity.SaleLine{
				SaleID:         saleID,
				ProductID:      line.ProductID,
				Quantity:       line.Quantity,
				PrecioUnitario: line.PrecioUnitario,
			}); err != nil {
				return err
			}
			if err := r.Stock.ApplyDelta(line.ProductID, entity.WarehousePrincipal, line.Quantity.Neg()); err != nil {
				return err
			}

			comment := fmt.Sprintf("Venta #%d", saleID)
			if policy.OverrideApplied(stock.Quantity, line.Quantity) {
				comment += " (stock negativo permitido)"
			}
			refID := saleID
			if err := r.Movements.Append(&entity.Movement{
				BatchID:     batchID,
				ProductID:   line.ProductID,
				WarehouseID: entity.WarehousePrincipal,
				Type:        entity.MovementTypeVenta,
				Quantity:    line.Quantity.Neg(),
				Ref:         entity.MovementRef{Kind: entity.RefVenta, ID: &refID},
				Comment:     comment,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saleID, nil
}
