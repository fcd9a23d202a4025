package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de productos, servicios y grupos de categoría.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ListProducts productos del negocio con la suma de stock de todas las ubicaciones.
func (r *CatalogRepo) ListProducts(ctx context.Context, businessID string) ([]*entity.Product, error) {
	query := `
		SELECT p.id, p.business_id, p.sku, p.name, p.price, p.unit_measure, p.category_group, p.is_service,
			COALESCE((SELECT SUM(s.quantity) FROM stock s WHERE s.product_id = p.id), 0)::bigint,
			p.created_at, p.updated_at
		FROM products p
		WHERE p.business_id = $1
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var sku, unit, group *string
		if err := rows.Scan(&p.ID, &p.BusinessID, &sku, &p.Name, &p.Price, &unit, &group, &p.IsService,
			&p.StockHint, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.SKU, p.UnitMeasure, p.CategoryGroup = fromNull(sku), fromNull(unit), fromNull(group)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListServices servicios del negocio.
func (r *CatalogRepo) ListServices(ctx context.Context, businessID string) ([]*entity.Service, error) {
	query := `
		SELECT id, business_id, name, rate, unit, category, created_at, updated_at
		FROM services WHERE business_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		var s entity.Service
		var unit, category *string
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.Rate, &unit, &category, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		s.Unit, s.Category = fromNull(unit), fromNull(category)
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListCategoryGroups configuración de control de stock por grupo.
func (r *CatalogRepo) ListCategoryGroups(ctx context.Context, businessID string) ([]*entity.CategoryGroup, error) {
	query := `SELECT business_id, group_name, is_stock_tracked FROM category_groups WHERE business_id = $1`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list category groups: %w", err)
	}
	defer rows.Close()
	var list []*entity.CategoryGroup
	for rows.Next() {
		var g entity.CategoryGroup
		if err := rows.Scan(&g.BusinessID, &g.Group, &g.IsStockTracked); err != nil {
			return nil, fmt.Errorf("scan category group: %w", err)
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}
