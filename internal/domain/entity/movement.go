package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeVenta         = "VENTA"
	MovementTypeCompra        = "COMPRA"
	MovementTypeAjusteEntrada = "AJUSTE_ENTRADA"
	MovementTypeAjusteSalida  = "AJUSTE_SALIDA"
)

// Etiquetas de dirección para el Kardex.
const (
	DirectionEntrada = "ENTRADA"
	DirectionSalida  = "SALIDA"
)

// RefKind identifica el origen de un movimiento (variante cerrada,
// reemplaza la referencia por nombre de tabla del sistema anterior).
type RefKind string

const (
	RefVenta  RefKind = "venta"
	RefCompra RefKind = "compra"
	RefAjuste RefKind = "ajuste"
)

// MovementRef referencia tipada al documento de origen.
// ID es nil para ajustes (no referencian cabecera).
type MovementRef struct {
	Kind RefKind
	ID   *int64
}

// Movement es un registro inmutable del libro de movimientos.
// Quantity es firmada: positiva para entradas, negativa para salidas.
// Nunca se actualiza ni se elimina; el orden total es (CreatedAt, ID).
type Movement struct {
	ID          int64
	BatchID     string // UUID que agrupa los movimientos de una misma operación
	ProductID   int64
	WarehouseID int64
	Type        string
	Quantity    decimal.Decimal
	Ref         MovementRef
	Comment     string
	CreatedAt   time.Time
}

// Direction devuelve la etiqueta ENTRADA/SALIDA según el tipo de movimiento.
func (m Movement) Direction() string {
	switch m.Type {
	case MovementTypeCompra, MovementTypeAjusteEntrada:
		return DirectionEntrada
	case MovementTypeVenta, MovementTypeAjusteSalida:
		return DirectionSalida
	}
	// Fallback por signo para registros históricos con tipos desconocidos
	if m.Quantity.Sign() >= 0 {
		return DirectionEntrada
	}
	return DirectionSalida
}

// KardexMovement es un movimiento enriquecido con el nombre de la contraparte
// (cliente de la venta o proveedor de la compra) para armar descripciones.
type KardexMovement struct {
	Movement
	CounterpartyName string
}
