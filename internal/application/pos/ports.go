package pos

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/application/sales"
	"github.com/jhoicas/Inventario-pos/internal/application/stock"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// SaleStore crea o actualiza ventas con re-validación de ítems en el servidor.
type SaleStore interface {
	CreateSale(ctx context.Context, sale *entity.Sale) (*sales.SaveResult, error)
	UpdateSale(ctx context.Context, id string, sale *entity.Sale) (*sales.SaveResult, error)
}

// StockDecreaser es la parte del libro de stock que usa el cobro.
type StockDecreaser interface {
	Decrease(ctx context.Context, in stock.StockChange) (*entity.StockEntry, error)
}

// ReconciliationQueue recibe los descuentos post-venta que fallaron.
type ReconciliationQueue interface {
	Enqueue(ctx context.Context, in stock.PendingInput) (*entity.PendingDecrement, error)
}

// ReceiptVariant variante de salida del recibo.
type ReceiptVariant string

// Variantes de recibo.
const (
	ReceiptCompact ReceiptVariant = "compact"
	ReceiptFull    ReceiptVariant = "full"
)

// Document recibo renderizado.
type Document struct {
	Variant     ReceiptVariant
	ContentType string
	Filename    string
	Bytes       []byte
}

// ReceiptRenderer genera el recibo de una venta. Solo lee sus entradas.
type ReceiptRenderer interface {
	Render(ctx context.Context, sale *entity.Sale, settings *entity.TenantSettings, customer *entity.Customer, variant ReceiptVariant) (*Document, error)
}
