package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en un depósito, sin bloquear.
// Devuelve cantidad cero si la fila no existe, sin crearla.
func (r *StockRepo) Get(productID, warehouseID int64) (*entity.StockEntry, error) {
	return r.read(productID, warehouseID, false)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
// Devuelve cantidad cero si la fila no existe, sin crearla.
func (r *StockRepo) GetForUpdate(productID, warehouseID int64) (*entity.StockEntry, error) {
	return r.read(productID, warehouseID, true)
}

func (r *StockRepo) read(productID, warehouseID int64, forUpdate bool) (*entity.StockEntry, error) {
	query := `
		SELECT id_producto, id_deposito, cantidad, updated_at
		FROM stock_depositos WHERE id_producto = $1 AND id_deposito = $2`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockEntry{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// EnsureRow crea la fila de stock en cero si no existe (idempotente).
func (r *StockRepo) EnsureRow(productID, warehouseID int64) error {
	query := `
		INSERT INTO stock_depositos (id_producto, id_deposito, cantidad, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (id_producto, id_deposito) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, productID, warehouseID); err != nil {
		return fmt.Errorf("ensure stock row: %w", err)
	}
	return nil
}

// EnsureAndLock garantiza la fila (creándola en cero) y la devuelve bloqueada.
// Un solo alcance de bloqueo: el insert idempotente y el SELECT FOR UPDATE
// corren en la misma transacción, sin el doble lock del sistema anterior.
func (r *StockRepo) EnsureAndLock(productID, warehouseID int64) (*entity.StockEntry, error) {
	if err := r.EnsureRow(productID, warehouseID); err != nil {
		return nil, err
	}
	return r.GetForUpdate(productID, warehouseID)
}

// ApplyDelta suma delta (posiblemente negativo) a una fila previamente
// bloqueada en esta transacción. Falla si la fila no existe.
func (r *StockRepo) ApplyDelta(productID, warehouseID int64, delta decimal.Decimal) error {
	query := `
		UPDATE stock_depositos SET cantidad = cantidad + $3, updated_at = now()
		WHERE id_producto = $1 AND id_deposito = $2`
	cmd, err := r.q.Exec(context.Background(), query, productID, warehouseID, delta)
	if err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("apply stock delta: fila inexistente para producto %d depósito %d", productID, warehouseID)
	}
	return nil
}

// TotalByProduct suma el stock del producto sobre todos los depósitos.
func (r *StockRepo) TotalByProduct(productID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(cantidad), 0) FROM stock_depositos WHERE id_producto = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}

// ListByProduct devuelve las filas de stock del producto por depósito.
func (r *StockRepo) ListByProduct(productID int64) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id_producto, id_deposito, cantidad, updated_at
		FROM stock_depositos WHERE id_producto = $1 ORDER BY id_deposito`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
