package entity

import "time"

// StockEntry representa la cantidad de un producto en una ubicación (una fila por producto+ubicación).
// Nunca se borra: solo queda en cero.
type StockEntry struct {
	ProductID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}
