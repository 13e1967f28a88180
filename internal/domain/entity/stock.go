package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry representa la cantidad actual de un producto en un depósito.
// Única por (ProductID, WarehouseID). Puede ser negativa si la política lo permite.
type StockEntry struct {
	ProductID   int64
	WarehouseID int64
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
