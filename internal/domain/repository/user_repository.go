package repository

import "github.com/ferrecentro/inventario-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Los getters devuelven (nil, nil) si la fila no existe: el caller decide el
// error contextual. Update y Delete sí devuelven ErrUserNotFound.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id int64) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
	Delete(id int64) error
}

// PartyRepository resuelve clientes y proveedores referenciados por las
// operaciones; su ciclo de vida completo está fuera del motor.
// Devuelve (nil, nil) si la fila no existe.
type PartyRepository interface {
	GetCustomer(id int64) (*entity.Customer, error)
	GetSupplier(id int64) (*entity.Supplier, error)
}

// WarehouseRepository lee el catálogo fijo de depósitos.
// GetByID devuelve (nil, nil) si el depósito no existe.
type WarehouseRepository interface {
	GetByID(id int64) (*entity.Warehouse, error)
	List() ([]*entity.Warehouse, error)
}
