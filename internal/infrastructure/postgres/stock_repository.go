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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, location_id, quantity, updated_at`

// Get obtiene el stock de un producto en una ubicación.
func (r *StockRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND location_id = $2`
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// ListByProduct filas del producto en todas sus ubicaciones.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 ORDER BY location_id`
	return r.list(ctx, query, productID)
}

// ListByLocation filas de una ubicación.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.StockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE location_id = $1 ORDER BY product_id`
	return r.list(ctx, query, locationID)
}

func (r *StockRepo) list(ctx context.Context, query string, arg string) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Add suma qty a la fila, insertándola si no existe.
func (r *StockRepo) Add(ctx context.Context, productID, locationID string, qty int64) (*entity.StockEntry, error) {
	query := `
		INSERT INTO stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING ` + stockColumns
	var s entity.StockEntry
	if err := r.q.QueryRow(ctx, query, productID, locationID, qty).Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("add stock: %w", err)
	}
	return &s, nil
}

// SubtractIfAvailable resta qty en una sola sentencia condicionada a quantity >= qty.
// Sin fila afectada no hay existencias suficientes (o la fila no existe).
func (r *StockRepo) SubtractIfAvailable(ctx context.Context, productID, locationID string, qty int64) (*entity.StockEntry, error) {
	query := `
		UPDATE stock SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND location_id = $2 AND quantity >= $3
		RETURNING ` + stockColumns
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, productID, locationID, qty).Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("subtract stock: %w", err)
	}
	return &s, nil
}
