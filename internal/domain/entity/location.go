package entity

import "time"

// Location representa una bodega, tienda o punto de venta donde se guarda stock.
type Location struct {
	ID         string
	BusinessID string
	Name       string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
