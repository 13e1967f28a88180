package repository

import "github.com/ferrecentro/inventario-api/internal/domain/entity"

// SaleRepository persiste cabeceras y líneas de venta (inmutables tras crear).
type SaleRepository interface {
	// CreateHeader inserta la cabecera y completa el ID generado.
	CreateHeader(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	GetHeader(id int64) (*entity.Sale, error)
}

// PurchaseRepository persiste cabeceras y líneas de compra.
type PurchaseRepository interface {
	CreateHeader(purchase *entity.Purchase) error
	CreateLine(line *entity.PurchaseLine) error
	GetHeader(id int64) (*entity.Purchase, error)
}

// AdjustmentRepository persiste cabeceras y líneas de ajuste manual.
type AdjustmentRepository interface {
	CreateHeader(adjustment *entity.Adjustment) error
	CreateLine(line *entity.AdjustmentLine) error
}
