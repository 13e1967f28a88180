package inventory

import "sort"

// Coordinator orquesta ventas, compras y ajustes como unidades atómicas de
// trabajo sobre el libro de stock y el registro de movimientos, y reconstruye
// el Kardex de un producto a partir de su historia.
//
// Toda mutación de stock pasa por aquí: se abre una transacción, se bloquean
// las filas de stock en orden global fijo (producto asc, depósito asc), se
// aplica la política de stock negativo y se confirma o revierte todo junto.
// Las lecturas del Kardex van por una transacción de solo lectura para que
// stock y movimientos salgan del mismo snapshot.
type Coordinator struct {
	txRunner             TxRunner
	allowNegativeDefault bool
}

// NewCoordinator construye el coordinador. allowNegativeDefault es la
// política de stock negativo que aplica cuando el request no trae la bandera
// permitir_stock_negativo.
func NewCoordinator(txRunner TxRunner, allowNegativeDefault bool) *Coordinator {
	return &Coordinator{txRunner: txRunner, allowNegativeDefault: allowNegativeDefault}
}

// allowNegative resuelve la bandera del request: nil significa no
// especificada y cae al default de configuración.
func (c *Coordinator) allowNegative(flag *bool) bool {
	if flag != nil {
		return *flag
	}
	return c.allowNegativeDefault
}

// lockKey identifica una fila de stock para el orden global de bloqueo.
type lockKey struct {
	productID   int64
	warehouseID int64
}

func (a lockKey) less(b lockKey) bool {
	if a.productID != b.productID {
		return a.productID < b.productID
	}
	return a.warehouseID < b.warehouseID
}

// sortByLockOrder ordena líneas por (producto, depósito) ascendente.
// Dos transacciones que toquen las mismas filas las bloquean en el mismo
// orden, lo que evita deadlocks con ajustes multi-línea concurrentes.
func sortByLockOrder[T any](lines []T, key func(T) lockKey) []T {
	sorted := make([]T, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]).less(key(sorted[j]))
	})
	return sorted
}
