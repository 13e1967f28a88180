package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ferrecentro/inventario-api/internal/application/dto"
	appinv "github.com/ferrecentro/inventario-api/internal/application/inventory"
	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
	"github.com/ferrecentro/inventario-api/pkg/textutil"
)

// ProductUseCase CRUD de productos del catálogo. La creación inicializa las
// filas de stock en cero para los tres depósitos dentro de la misma
// transacción: así el Kardex de todo producto cierra desde el origen.
type ProductUseCase struct {
	txRunner    appinv.TxRunner
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner appinv.TxRunner, productRepo repository.ProductRepository, stockRepo repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, stockRepo: stockRepo}
}

// Create registra un producto y sus filas de stock en cero.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Codigo == "" || in.Nombre == "" {
		return nil, fmt.Errorf("%w: codigo y nombre son obligatorios", domain.ErrInvalidInput)
	}
	product := &entity.Product{
		Codigo:            in.Codigo,
		Nombre:            in.Nombre,
		NombreNormalizado: textutil.Fold(in.Nombre),
		PrecioVenta:       in.PrecioVenta,
		PrecioCosto:       in.PrecioCosto,
	}
	err := uc.txRunner.Run(ctx, func(r appinv.TxRepos) error {
		if err := r.Products.Create(product); err != nil {
			return err
		}
		for _, wh := range []int64{entity.WarehousePrincipal, entity.WarehouseDaniado, entity.WarehouseInmovilizado} {
			if err := r.Stock.EnsureRow(product.ID, wh); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID devuelve el producto con su stock por depósito.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductWithStockResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: el producto %d no existe", domain.ErrNotFound, id)
	}
	entries, err := uc.stockRepo.ListByProduct(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductWithStockResponse{ProductResponse: *toProductResponse(product)}
	for _, e := range entries {
		switch e.WarehouseID {
		case entity.WarehousePrincipal:
			resp.StockPrincipal = e.Quantity
		case entity.WarehouseDaniado:
			resp.StockDaniado = e.Quantity
		case entity.WarehouseInmovilizado:
			resp.StockInmovilizado = e.Quantity
		}
	}
	return resp, nil
}

// List busca productos por nombre (insensible a acentos y mayúsculas) con el
// stock del depósito principal.
func (uc *ProductUseCase) List(ctx context.Context, query string, page dto.PageRequest) ([]dto.ProductWithStockResponse, error) {
	page.DefaultPage()
	rows, err := uc.productRepo.List(textutil.Fold(query), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductWithStockResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ProductWithStockResponse{
			ProductResponse: *toProductResponse(&row.Product),
			StockPrincipal:  row.StockPrincipal,
		})
	}
	return out, nil
}

// Update modifica nombre y precio de venta. El costo y el stock solo cambian
// vía compras, ventas y ajustes.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: el producto %d no existe", domain.ErrNotFound, id)
	}
	if in.Nombre != "" {
		product.Nombre = in.Nombre
		product.NombreNormalizado = textutil.Fold(in.Nombre)
	}
	if in.PrecioVenta.GreaterThanOrEqual(decimal.Zero) && !in.PrecioVenta.IsZero() {
		product.PrecioVenta = in.PrecioVenta
	}
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		PrecioVenta: p.PrecioVenta,
		PrecioCosto: p.PrecioCosto,
		CreatedAt:   p.CreatedAt,
	}
}
