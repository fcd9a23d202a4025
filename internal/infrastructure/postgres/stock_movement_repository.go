package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del historial de stock (append-only).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, business_id, product_id, location_id, change_amount, type,
			supplier_id, batch_number, reference_id, transaction_id, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BusinessID, m.ProductID, m.LocationID, m.ChangeAmount, m.Type,
		nullIfEmpty(m.SupplierID), nullIfEmpty(m.BatchNumber), nullIfEmpty(m.ReferenceID),
		m.TransactionID, nullIfEmpty(m.UserID), nullIfEmpty(m.Notes), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct historial del producto, más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, business_id, product_id, location_id, change_amount, type,
			supplier_id, batch_number, reference_id, transaction_id, user_id, notes, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var supplier, batch, ref, user, notes *string
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.ProductID, &m.LocationID, &m.ChangeAmount, &m.Type,
			&supplier, &batch, &ref, &m.TransactionID, &user, &notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.SupplierID, m.BatchNumber, m.ReferenceID = fromNull(supplier), fromNull(batch), fromNull(ref)
		m.UserID, m.Notes = fromNull(user), fromNull(notes)
		list = append(list, &m)
	}
	return list, rows.Err()
}
