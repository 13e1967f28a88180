package entity

import "time"

// Customer representa un cliente. Su ciclo de vida se administra fuera
// del motor de inventario; aquí solo se valida su existencia.
type Customer struct {
	ID          int64
	RazonSocial string
	CreatedAt   time.Time
}

// Supplier representa un proveedor de mercancía.
type Supplier struct {
	ID        int64
	Nombre    string
	CreatedAt time.Time
}
