package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por ubicación+producto.
// Usado dentro de transacciones (TxRunner) para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, productID, locationID string) (*entity.StockEntry, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.StockEntry, error)
	// Add suma qty a la fila (la crea si no existe) y devuelve la fila resultante.
	Add(ctx context.Context, productID, locationID string, qty int64) (*entity.StockEntry, error)
	// SubtractIfAvailable resta qty solo si quantity >= qty, en una sola operación atómica.
	// Devuelve domain.ErrInsufficientStock sin mutar nada en caso contrario.
	SubtractIfAvailable(ctx context.Context, productID, locationID string, qty int64) (*entity.StockEntry, error)
}
