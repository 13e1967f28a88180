package entity

// Depósitos fijos del sistema. No se crean ni destruyen en runtime;
// el catálogo se siembra por migración.
const (
	WarehousePrincipal    int64 = 1 // stock vendible
	WarehouseDaniado      int64 = 2 // mercancía dañada
	WarehouseInmovilizado int64 = 3 // inmovilizado (garantías, retenciones)
)

// Warehouse representa un depósito donde se almacena inventario.
type Warehouse struct {
	ID     int64
	Nombre string
}
