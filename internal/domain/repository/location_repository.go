package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// LocationRepository define el puerto de lectura de ubicaciones (bodegas, tiendas).
type LocationRepository interface {
	// GetByID devuelve la ubicación o domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
