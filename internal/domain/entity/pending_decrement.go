package entity

import "time"

// Estados de un descuento de stock pendiente de conciliar.
const (
	PendingStatusPending    = "PENDING"
	PendingStatusProcessing = "PROCESSING"
	PendingStatusApplied    = "APPLIED"
	// PendingStatusFailed agotó los reintentos; requiere revisión manual.
	PendingStatusFailed = "FAILED"
)

// PendingDecrement registra un descuento de stock post-venta que falló y queda para conciliación.
type PendingDecrement struct {
	ID         string
	BusinessID string
	SaleID     string
	ProductID  string
	LocationID string
	UserID     string
	Quantity   int64
	LastError  string
	Attempts   int // también identifica el reclamo vigente
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
