package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// CustomerRepository puerto de solo lectura de clientes (encabezado del recibo).
type CustomerRepository interface {
	GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error)
}
