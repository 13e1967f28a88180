package postgres

import (
	"context"
	"fmt"

	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo registro de movimientos sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: aquí no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta un movimiento inmutable y completa ID y CreatedAt generados.
func (r *MovementRepo) Append(m *entity.Movement) error {
	query := `
		INSERT INTO movimientos_inventario
			(batch_id, id_producto, id_deposito, tipo_movimiento, cantidad, referencia_tipo, referencia_id, comentario)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, fecha_movimiento`
	err := r.q.QueryRow(context.Background(), query,
		m.BatchID, m.ProductID, m.WarehouseID, m.Type, m.Quantity,
		string(m.Ref.Kind), m.Ref.ID, m.Comment,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

const movementColumns = `
	m.id, m.batch_id, m.id_producto, m.id_deposito, m.tipo_movimiento,
	m.cantidad, m.referencia_tipo, m.referencia_id, m.comentario, m.fecha_movimiento`

// ListByProduct devuelve los movimientos del producto en orden cronológico
// ascendente; empates de fecha se resuelven por id de inserción.
func (r *MovementRepo) ListByProduct(productID int64) ([]entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movimientos_inventario m
		WHERE m.id_producto = $1
		ORDER BY m.fecha_movimiento ASC, m.id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []entity.Movement
	for rows.Next() {
		var m entity.Movement
		var refKind string
		if err := rows.Scan(&m.ID, &m.BatchID, &m.ProductID, &m.WarehouseID, &m.Type,
			&m.Quantity, &refKind, &m.Ref.ID, &m.Comment, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Ref.Kind = entity.RefKind(refKind)
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListForKardex es ListByProduct enriquecido con el nombre de la contraparte
// (cliente de la venta o proveedor de la compra) resuelto vía JOIN.
func (r *MovementRepo) ListForKardex(productID int64) ([]entity.KardexMovement, error) {
	query := `
		SELECT ` + movementColumns + `,
			COALESCE(c.razon_social, p.nombre, '') AS contraparte
		FROM movimientos_inventario m
		LEFT JOIN ventas v      ON m.referencia_tipo = 'venta'  AND v.id = m.referencia_id
		LEFT JOIN clientes c    ON c.id = v.id_cliente
		LEFT JOIN compras co    ON m.referencia_tipo = 'compra' AND co.id = m.referencia_id
		LEFT JOIN proveedores p ON p.id = co.id_proveedor
		WHERE m.id_producto = $1
		ORDER BY m.fecha_movimiento ASC, m.id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements for kardex: %w", err)
	}
	defer rows.Close()

	var list []entity.KardexMovement
	for rows.Next() {
		var m entity.KardexMovement
		var refKind string
		if err := rows.Scan(&m.ID, &m.BatchID, &m.ProductID, &m.WarehouseID, &m.Type,
			&m.Quantity, &refKind, &m.Ref.ID, &m.Comment, &m.CreatedAt, &m.CounterpartyName); err != nil {
			return nil, fmt.Errorf("scan kardex movement: %w", err)
		}
		m.Ref.Kind = entity.RefKind(refKind)
		list = append(list, m)
	}
	return list, rows.Err()
}
