package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConcurrency       = errors.New("conflicto de concurrencia, reintentar la operación")
)

// InsufficientStockError detalla un rechazo por stock insuficiente.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando.
type InsufficientStockError struct {
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q. Disponible: %s, Solicitado: %s",
		e.ProductName, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// KardexMismatchError indica que el saldo reconstruido desde los movimientos
// no cierra contra el stock actual del libro: historia corrupta o mutación
// fuera del motor transaccional.
type KardexMismatchError struct {
	ProductID int64
	Computed  decimal.Decimal
	Current   decimal.Decimal
}

func (e *KardexMismatchError) Error() string {
	return fmt.Sprintf("kardex inconsistente para producto %d: saldo reconstruido %s, stock actual %s",
		e.ProductID, e.Computed.String(), e.Current.String())
}
