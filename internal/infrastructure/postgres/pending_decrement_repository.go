package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.PendingDecrementRepository = (*PendingDecrementRepo)(nil)

// PendingDecrementRepo cola de conciliación de stock (tabla pending_stock_decrements).
type PendingDecrementRepo struct {
	q Querier
}

// NewPendingDecrementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPendingDecrementRepository(q Querier) *PendingDecrementRepo {
	return &PendingDecrementRepo{q: q}
}

// Create inserta un pendiente.
func (r *PendingDecrementRepo) Create(ctx context.Context, p *entity.PendingDecrement) error {
	query := `
		INSERT INTO pending_stock_decrements (id, business_id, sale_id, product_id, location_id, user_id,
			quantity, last_error, attempts, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.BusinessID, p.SaleID, p.ProductID, p.LocationID, nullIfEmpty(p.UserID),
		p.Quantity, nullIfEmpty(p.LastError), p.Attempts, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pending decrement: %w", err)
	}
	return nil
}

const pendingColumns = `id, business_id, sale_id, product_id, location_id, user_id, quantity, last_error,
	attempts, status, created_at, updated_at`

// ListPending no aplicados por antigüedad; businessID vacío lista todos los negocios.
func (r *PendingDecrementRepo) ListPending(ctx context.Context, businessID string, limit int) ([]*entity.PendingDecrement, error) {
	query := `
		SELECT ` + pendingColumns + `
		FROM pending_stock_decrements
		WHERE status <> $1 AND ($2 = '' OR business_id = $2)
		ORDER BY created_at
		LIMIT NULLIF($3, 0)`
	rows, err := r.q.Query(ctx, query, entity.PendingStatusApplied, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending decrements: %w", err)
	}
	return scanPending(rows)
}

// Claim reclama filas con FOR UPDATE SKIP LOCKED: dos procesos nunca toman la misma fila.
func (r *PendingDecrementRepo) Claim(ctx context.Context, businessID string, limit int, now, staleBefore time.Time) ([]*entity.PendingDecrement, error) {
	query := `
		UPDATE pending_stock_decrements
		SET status = $1, attempts = attempts + 1, updated_at = $2
		WHERE id IN (
			SELECT id FROM pending_stock_decrements
			WHERE ($3 = '' OR business_id = $3)
				AND (status = $4 OR (status = $1 AND updated_at < $5))
			ORDER BY updated_at, created_at
			LIMIT NULLIF($6, 0)
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + pendingColumns
	rows, err := r.q.Query(ctx, query,
		entity.PendingStatusProcessing, now, businessID, entity.PendingStatusPending, staleBefore, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim pending decrements: %w", err)
	}
	list, err := scanPending(rows)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func scanPending(rows pgx.Rows) ([]*entity.PendingDecrement, error) {
	defer rows.Close()
	var list []*entity.PendingDecrement
	for rows.Next() {
		var p entity.PendingDecrement
		var user, lastErr *string
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.SaleID, &p.ProductID, &p.LocationID, &user, &p.Quantity,
			&lastErr, &p.Attempts, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pending decrement: %w", err)
		}
		p.UserID, p.LastError = fromNull(user), fromNull(lastErr)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update guarda error, estado y fecha de una fila reclamada. Si la fila ya no está PROCESSING con
// los mismos intentos (otro proceso la retomó) no cambia nada y devuelve domain.ErrNotFound.
func (r *PendingDecrementRepo) Update(ctx context.Context, p *entity.PendingDecrement) error {
	query := `
		UPDATE pending_stock_decrements
		SET last_error = $3, status = $4, updated_at = $5
		WHERE id = $1 AND attempts = $2 AND status = $6`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Attempts, nullIfEmpty(p.LastError), p.Status, p.UpdatedAt, entity.PendingStatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("update pending decrement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
