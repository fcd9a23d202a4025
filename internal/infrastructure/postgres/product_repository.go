package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura de un producto por ID.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene el producto o domain.ErrNotFound.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, business_id, sku, name, price, unit_measure, category_group, is_service, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	var sku, unit, group *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.BusinessID, &sku, &p.Name, &p.Price, &unit, &group, &p.IsService, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.SKU, p.UnitMeasure, p.CategoryGroup = fromNull(sku), fromNull(unit), fromNull(group)
	return &p, nil
}
