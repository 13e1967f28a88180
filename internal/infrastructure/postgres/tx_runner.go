package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appinv "github.com/ferrecentro/inventario-api/internal/application/inventory"
	"github.com/ferrecentro/inventario-api/internal/domain"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ appinv.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// lockTimeoutMillis limita la espera por locks de fila (SET LOCAL
// lock_timeout); un timeout se reporta como domain.ErrConcurrency y fuerza
// rollback, nunca un commit parcial.
type TxRunner struct {
	pool              *pgxpool.Pool
	lockTimeoutMillis int
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMillis int) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMillis: lockTimeoutMillis}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Cualquier error dentro de la unidad de trabajo fuerza
// rollback completo antes de propagarse.
func (r *TxRunner) Run(ctx context.Context, fn func(repos appinv.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeoutMillis > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMillis)); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(txRepos(tx)); err != nil {
		return mapConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConcurrency(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunReadOnly ejecuta fn en una transacción REPEATABLE READ de solo lectura:
// todas las lecturas dentro de fn salen del mismo snapshot, aunque otras
// transacciones confirmen en el medio. Lo usa la reconstrucción del Kardex
// para que el stock actual y la lista de movimientos sean consistentes entre
// sí.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(repos appinv.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txRepos(tx)); err != nil {
		return mapConcurrency(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConcurrency(fmt.Errorf("commit read-only transaction: %w", err))
	}
	return nil
}

// txRepos ata los ocho repositorios a la transacción dada.
func txRepos(tx pgx.Tx) appinv.TxRepos {
	return appinv.TxRepos{
		Movements:   NewMovementRepository(tx),
		Stock:       NewStockRepository(tx),
		Products:    NewProductRepository(tx),
		Sales:       NewSaleRepository(tx),
		Purchases:   NewPurchaseRepository(tx),
		Adjustments: NewAdjustmentRepository(tx),
		Users:       NewUserRepository(tx),
		Parties:     NewPartyRepository(tx),
	}
}

// mapConcurrency traduce errores de lock/deadlock del store al error de
// dominio reintentable; el resto pasa sin tocar.
func mapConcurrency(err error) error {
	if isConcurrencyError(err) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrency, err)
	}
	return err
}
