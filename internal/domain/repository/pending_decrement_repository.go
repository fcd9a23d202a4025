package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// PendingDecrementRepository persistencia de la cola de conciliación de stock.
type PendingDecrementRepository interface {
	Create(ctx context.Context, p *entity.PendingDecrement) error
	// ListPending lista los no aplicados (PENDING, PROCESSING, FAILED) por antigüedad.
	ListPending(ctx context.Context, businessID string, limit int) ([]*entity.PendingDecrement, error)
	// Claim toma de forma atómica hasta limit filas PENDING (o PROCESSING con updated_at anterior a
	// staleBefore), las pasa a PROCESSING e incrementa Attempts. Las menos recientemente tocadas primero.
	Claim(ctx context.Context, businessID string, limit int, now, staleBefore time.Time) ([]*entity.PendingDecrement, error)
	// Update guarda el resultado de una fila reclamada. Solo la modifica si sigue PROCESSING con el
	// mismo Attempts; en otro caso devuelve domain.ErrNotFound.
	Update(ctx context.Context, p *entity.PendingDecrement) error
}
