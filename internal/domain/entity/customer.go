package entity

import "time"

// Customer representa un cliente del negocio (solo lectura para el POS: encabezado del recibo).
type Customer struct {
	ID         string
	BusinessID string
	Name       string
	TaxID      string
	Email      string
	Phone      string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
