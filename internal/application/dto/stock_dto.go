package dto

import "time"

// StockChangeRequest body para POST /api/stock/increase y /api/stock/decrease.
type StockChangeRequest struct {
	ProductID   string `json:"product_id" validate:"required,max=64"`
	LocationID  string `json:"location_id" validate:"required,max=64"`
	Quantity    int64  `json:"quantity"`
	SupplierID  string `json:"supplier_id,omitempty" validate:"omitempty,max=64"`
	BatchNumber string `json:"batch_number,omitempty" validate:"omitempty,max=64"`
	ReferenceID string `json:"reference_id,omitempty" validate:"omitempty,max=64"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// MoveStockRequest body para POST /api/stock/move.
type MoveStockRequest struct {
	ProductID      string `json:"product_id" validate:"required,max=64"`
	FromLocationID string `json:"from_location_id" validate:"required,max=64"`
	ToLocationID   string `json:"to_location_id" validate:"required,max=64"`
	Quantity       int64  `json:"quantity"`
	Notes          string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// StockEntryDTO cantidad de un producto en una ubicación.
type StockEntryDTO struct {
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StockMovementDTO registro del historial de stock.
type StockMovementDTO struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	LocationID    string    `json:"location_id"`
	ChangeAmount  int64     `json:"change_amount"`
	Type          string    `json:"type"`
	SupplierID    string    `json:"supplier_id,omitempty"`
	BatchNumber   string    `json:"batch_number,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PendingDecrementDTO descuento pendiente de conciliación.
type PendingDecrementDTO struct {
	ID         string    `json:"id"`
	SaleID     string    `json:"sale_id"`
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	LastError  string    `json:"last_error,omitempty"`
	Attempts   int       `json:"attempts"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
