package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persistencia de ventas (cabecera + detalle) sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// CreateHeader inserta la cabecera y completa ID y CreatedAt generados.
func (r *SaleRepo) CreateHeader(s *entity.Sale) error {
	query := `
		INSERT INTO ventas (id_cliente, id_usuario, subtotal, impuesto, total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, fecha_venta`
	err := r.q.QueryRow(context.Background(), query,
		s.CustomerID, s.SellerID, s.Subtotal, s.Impuesto, s.Total,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create sale header: %w", err)
	}
	return nil
}

func (r *SaleRepo) CreateLine(l *entity.SaleLine) error {
	query := `
		INSERT INTO detalle_ventas (id_venta, id_producto, cantidad, precio_unitario)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		l.SaleID, l.ProductID, l.Quantity, l.PrecioUnitario,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("create sale line: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetHeader(id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), `
		SELECT id, id_cliente, id_usuario, subtotal, impuesto, total, fecha_venta
		FROM ventas WHERE id = $1`, id,
	).Scan(&s.ID, &s.CustomerID, &s.SellerID, &s.Subtotal, &s.Impuesto, &s.Total, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}
