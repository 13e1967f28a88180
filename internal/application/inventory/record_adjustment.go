package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/application/dto"
	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	domaininv "github.com/ferrecentro/inventario-api/internal/domain/inventory"
)

// AdjustmentLineInput línea de ajuste normalizada: Quantity siempre positiva
// y Type resuelto a ENTRADA o SALIDA.
type AdjustmentLineInput struct {
	ProductID   int64
	WarehouseID int64
	Quantity    decimal.Decimal
	Type        string
}

// AdjustmentInput entrada para RecordAdjustment. UserID nil = ajuste de sistema.
type AdjustmentInput struct {
	UserID                *int64
	Motivo                string
	PermitirStockNegativo bool
	Lines                 []AdjustmentLineInput
}

// RecordAdjustmentFromRequest adapta el request HTTP: aplica defaults de
// depósito, resuelve el tipo desde el signo cuando falta y valida que cada
// línea traiga producto y cantidad.
func (c *Coordinator) RecordAdjustmentFromRequest(ctx context.Context, in dto.AdjustmentRequest) (int, error) {
	input := AdjustmentInput{
		UserID:                in.UserID,
		Motivo:                in.Motivo,
		PermitirStockNegativo: c.allowNegative(in.PermitirStockNegativo),
	}
	for _, l := range in.Lines {
		if l.Quantity == nil {
			return 0, fmt.Errorf("%w: cada detalle requiere producto_id y cantidad numérica", domain.ErrInvalidInput)
		}
		warehouseID := l.WarehouseID
		if warehouseID == 0 {
			warehouseID = entity.WarehousePrincipal
		}
		tipo := strings.ToUpper(strings.TrimSpace(l.Type))
		if tipo == "" {
			if l.Quantity.Sign() >= 0 {
				tipo = entity.AdjustmentEntrada
			} else {
				tipo = entity.AdjustmentSalida
			}
		}
		input.Lines = append(input.Lines, AdjustmentLineInput{
			ProductID:   l.ProductID,
			WarehouseID: warehouseID,
			Quantity:    l.Quantity.Abs(),
			Type:        tipo,
		})
	}
	return c.RecordAdjustment(ctx, input)
}

// RecordAdjustment aplica un ajuste manual como unidad atómica. Para cada
// línea garantiza que la fila de stock exista (creándola en cero bajo
// bloqueo), aplica la política de stock en salidas y agrega un movimiento con
// referencia de ajuste (sin id de documento). Devuelve las líneas procesadas.
func (c *Coordinator) RecordAdjustment(ctx context.Context, in AdjustmentInput) (int, error) {
	if len(in.Lines) == 0 {
		return 0, fmt.Errorf("%w: no se proporcionaron detalles de ajuste", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.ProductID <= 0 {
			return 0, fmt.Errorf("%w: cada detalle requiere producto_id", domain.ErrInvalidInput)
		}
		if l.Quantity.IsZero() {
			return 0, fmt.Errorf("%w: la cantidad del ajuste no puede ser cero", domain.ErrInvalidInput)
		}
		if l.Type != entity.AdjustmentEntrada && l.Type != entity.AdjustmentSalida {
			return 0, fmt.Errorf("%w: tipo de ajuste desconocido %q", domain.ErrInvalidInput, l.Type)
		}
	}

	motivo := in.Motivo
	if motivo == "" {
		motivo = "Ajuste manual"
	}
	actor := "sistema"
	if in.UserID != nil {
		actor = strconv.FormatInt(*in.UserID, 10)
	}

	policy := domaininv.Policy{AllowNegative: in.PermitirStockNegativo}
	batchID := uuid.New().String()

	err := c.txRunner.Run(ctx, func(r TxRepos) error {
		if in.UserID != nil {
			user, err := r.Users.GetByID(*in.UserID)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("%w: el usuario %d no existe", domain.ErrNotFound, *in.UserID)
			}
		}

		header := &entity.Adjustment{UserID: in.UserID, Motivo: motivo}
		if err := r.Adjustments.CreateHeader(header); err != nil {
			return err
		}

		lines := sortByLockOrder(in.Lines, func(l AdjustmentLineInput) lockKey {
			return lockKey{productID: l.ProductID, warehouseID: l.WarehouseID}
		})
		for _, line := range lines {
			product, err := r.Products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: el producto %d no existe", domain.ErrNotFound, line.ProductID)
			}

			stock, err := r.Stock.EnsureAndLock(line.ProductID, line.WarehouseID)
			if err != nil {
				return err
			}

			delta := line.Quantity
			movType := entity.MovementTypeAjusteEntrada
			if line.Type == entity.AdjustmentSalida {
				if err := policy.CheckWithdrawal(product.Nombre, stock.Quantity, line.Quantity); err != nil {
					return err
				}
				delta = line.Quantity.Neg()
				movType = entity.MovementTypeAjusteSalida
			}

			if err := r.Adjustments.CreateLine(&entity.AdjustmentLine{
				AdjustmentID: header.ID,
				ProductID:    line.ProductID,
				WarehouseID:  line.WarehouseID,
				Type:         line.Type,
				Quantity:     line.Quantity,
			}); err != nil {
				return err
			}
			if err := r.Stock.ApplyDelta(line.ProductID, line.WarehouseID, delta); err != nil {
				return err
			}
			if err := r.Movements.Append(&entity.Movement{
				BatchID:     batchID,
				ProductID:   line.ProductID,
				WarehouseID: line.WarehouseID,
				Type:        movType,
				Quantity:    delta,
				Ref:         entity.MovementRef{Kind: entity.RefAjuste},
				Comment:     fmt.Sprintf("Ajuste: %s. Usuario: %s", motivo, actor),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(in.Lines), nil
}
