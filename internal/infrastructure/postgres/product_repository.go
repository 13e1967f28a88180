package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, codigo, nombre, nombre_normalizado, precio_venta, precio_costo, created_at, updated_at`

// Create persiste el producto y completa ID y timestamps generados.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO productos (codigo, nombre, nombre_normalizado, precio_venta, precio_costo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		p.Codigo, p.Nombre, p.NombreNormalizado, p.PrecioVenta, p.PrecioCosto,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con código %q", domain.ErrDuplicate, p.Codigo)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	return r.getBy("id = $1", id)
}

func (r *ProductRepo) GetByCodigo(codigo string) (*entity.Product, error) {
	return r.getBy("codigo = $1", codigo)
}

func (r *ProductRepo) getBy(where string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM productos WHERE `+where, arg,
	).Scan(&p.ID, &p.Codigo, &p.Nombre, &p.NombreNormalizado,
		&p.PrecioVenta, &p.PrecioCosto, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update modifica nombre, clave normalizada y precio de venta.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE productos
		SET nombre = $2, nombre_normalizado = $3, precio_venta = $4, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.ID, p.Nombre, p.NombreNormalizado, p.PrecioVenta)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost fija el precio de costo al último costo de compra.
func (r *ProductRepo) UpdateCost(productID int64, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE productos SET precio_costo = $2, updated_at = now() WHERE id = $1`,
		productID, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List busca por clave normalizada (vacío = todos) e incluye el stock del
// depósito principal. La búsqueda compara contra nombre_normalizado y código.
func (r *ProductRepo) List(normalizedQuery string, limit, offset int) ([]repository.ProductWithStock, error) {
	query := `
		SELECT p.id, p.codigo, p.nombre, p.nombre_normalizado,
			p.precio_venta, p.precio_costo, p.created_at, p.updated_at,
			COALESCE(s.cantidad, 0) AS stock_principal
		FROM productos p
		LEFT JOIN stock_depositos s ON s.id_producto = p.id AND s.id_deposito = $1
		WHERE ($2 = '' OR p.nombre_normalizado LIKE '%' || $2 || '%' OR p.codigo LIKE '%' || $2 || '%')
		ORDER BY p.nombre ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query,
		entity.WarehousePrincipal, normalizedQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []repository.ProductWithStock
	for rows.Next() {
		var item repository.ProductWithStock
		p := &item.Product
		if err := rows.Scan(&p.ID, &p.Codigo, &p.Nombre, &p.NombreNormalizado,
			&p.PrecioVenta, &p.PrecioCosto, &p.CreatedAt, &p.UpdatedAt,
			&item.StockPrincipal); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
