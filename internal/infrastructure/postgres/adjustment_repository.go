package postgres

import (
	"context"
	"fmt"

	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo persistencia de ajustes manuales sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// CreateHeader inserta la cabecera y completa ID y CreatedAt generados.
// id_usuario admite NULL: un ajuste sin usuario es un ajuste de sistema.
func (r *AdjustmentRepo) CreateHeader(a *entity.Adjustment) error {
	query := `
		INSERT INTO ajustes (id_usuario, motivo)
		VALUES ($1, $2)
		RETURNING id, fecha_ajuste`
	err := r.q.QueryRow(context.Background(), query, a.UserID, a.Motivo).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create adjustment header: %w", err)
	}
	return nil
}

func (r *AdjustmentRepo) CreateLine(l *entity.AdjustmentLine) error {
	query := `
		INSERT INTO detalle_ajustes (id_ajuste, id_producto, id_deposito, tipo, cantidad)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		l.AdjustmentID, l.ProductID, l.WarehouseID, l.Type, l.Quantity,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("create adjustment line: %w", err)
	}
	return nil
}
