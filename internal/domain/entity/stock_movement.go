package entity

import "time"

// Tipos de movimiento del libro de stock.
const (
	MovementTypeIncrease = "INCREASE"
	MovementTypeDecrease = "DECREASE"
	MovementTypeSale     = "SALE"
	MovementTypeMoveOut  = "MOVE_OUT"
	MovementTypeMoveIn   = "MOVE_IN"
)

// StockMovement es un registro inmutable del historial: uno por cada mutación del libro.
// Los dos registros de un traslado comparten TransactionID.
type StockMovement struct {
	ID            string
	BusinessID    string
	ProductID     string
	LocationID    string
	ChangeAmount  int64 // positivo entrada, negativo salida
	Type          string
	SupplierID    string
	BatchNumber   string
	ReferenceID   string // venta, orden de compra, etc.
	TransactionID string
	UserID        string
	Notes         string
	CreatedAt     time.Time
}
