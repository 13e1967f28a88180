package usecase

import (
	"fmt"

	"github.com/ferrecentro/inventario-api/internal/application/dto"
	"github.com/ferrecentro/inventario-api/internal/domain"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
	"github.com/ferrecentro/inventario-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// List devuelve los usuarios con paginación.
func (uc *UserUseCase) List(page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.userRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{
			ID:        u.ID,
			Username:  u.Username,
			Nombre:    u.Nombre,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

// Update cambia username, nombre o rol de un usuario existente.
func (uc *UserUseCase) Update(id int64, in dto.UpdateUserRequest) error {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: el usuario %d no existe", domain.ErrNotFound, id)
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Nombre != "" {
		user.Nombre = in.Nombre
	}
	if in.Role != "" {
		if in.Role != entity.RoleAdmin && in.Role != entity.RoleBodeguero && in.Role != entity.RoleVendedor {
			return fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, in.Role)
		}
		user.Role = in.Role
	}
	return uc.userRepo.Update(user)
}

// Delete elimina un usuario.
func (uc *UserUseCase) Delete(id int64) error {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: el usuario %d no existe", domain.ErrNotFound, id)
	}
	return uc.userRepo.Delete(id)
}
