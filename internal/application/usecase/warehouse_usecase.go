package usecase

import (
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

// WarehouseUseCase lectura del catálogo fijo de depósitos.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(warehouseRepo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo}
}

// List devuelve los depósitos del sistema.
func (uc *WarehouseUseCase) List() ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List()
}
