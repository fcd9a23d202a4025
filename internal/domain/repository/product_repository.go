package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// CatalogRepository define el puerto de lectura del catálogo del negocio.
type CatalogRepository interface {
	ListProducts(ctx context.Context, businessID string) ([]*entity.Product, error)
	ListServices(ctx context.Context, businessID string) ([]*entity.Service, error)
	ListCategoryGroups(ctx context.Context, businessID string) ([]*entity.CategoryGroup, error)
}

// ProductRepository lectura de un producto por ID (para validar a qué negocio pertenece).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
