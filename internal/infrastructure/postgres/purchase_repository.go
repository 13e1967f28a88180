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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo persistencia de compras (cabecera + detalle) sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// CreateHeader inserta la cabecera y completa ID y CreatedAt generados.
func (r *PurchaseRepo) CreateHeader(p *entity.Purchase) error {
	query := `
		INSERT INTO compras (id_proveedor, total, metodo_pago, numero_factura)
		VALUES ($1, $2, $3, $4)
		RETURNING id, fecha_compra`
	err := r.q.QueryRow(context.Background(), query,
		p.SupplierID, p.Total, p.MetodoPago, p.NumeroFactura,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create purchase header: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) CreateLine(l *entity.PurchaseLine) error {
	query := `
		INSERT INTO detalle_compra (id_compra, id_producto, cantidad, costo_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		l.PurchaseID, l.ProductID, l.Quantity, l.CostoUnitario, l.Subtotal,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("create purchase line: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) GetHeader(id int64) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), `
		SELECT id, id_proveedor, total, metodo_pago, numero_factura, fecha_compra
		FROM compras WHERE id = $1`, id,
	).Scan(&p.ID, &p.SupplierID, &p.Total, &p.MetodoPago, &p.NumeroFactura, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}
