package entity

import "time"

// Warehouse representa una bodega o sucursal donde se recibe mercancía.
// IsWIP marca bodegas de obra en proceso: exigen informe de obra verificado
// en cada línea de la orden de compra antes de permitir la recepción.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	IsWIP     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
