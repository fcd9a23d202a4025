package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y proformas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// Update reemplaza los ítems y totales; ID, BusinessID y CreatedAt se conservan.
	Update(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error)
	ListByBusiness(ctx context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
