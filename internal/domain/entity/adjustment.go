package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de línea de ajuste.
const (
	AdjustmentEntrada = "ENTRADA"
	AdjustmentSalida  = "SALIDA"
)

// Adjustment cabecera de ajuste manual de inventario.
// UserID es opcional: nil significa ajuste de sistema.
type Adjustment struct {
	ID        int64
	UserID    *int64
	Motivo    string
	CreatedAt time.Time
}

// AdjustmentLine línea de ajuste. Quantity siempre positiva;
// la dirección la da Type (ENTRADA o SALIDA).
type AdjustmentLine struct {
	ID           int64
	AdjustmentID int64
	ProductID    int64
	WarehouseID  int64
	Type         string
	Quantity     decimal.Decimal
}
