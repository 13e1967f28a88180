package dto

import "time"

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nombre   string `json:"nombre"`
	Role     string `json:"rol,omitempty"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse representación de un usuario (nunca incluye el hash).
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Nombre    string    `json:"nombre"`
	Role      string    `json:"rol"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token más datos básicos del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateUserRequest body para PUT /api/usuarios/:id.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Role     string `json:"rol"`
}
