package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository: cabecera en sales, líneas en sale_items.
// Create y Update escriben cabecera y líneas en una transacción.
type SaleRepo struct {
	pool *pgxpool.Pool
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

const saleColumns = `id, business_id, date, subtotal, vat, delivery_fee, total, payment_method, cashier,
	customer_id, location_id, is_proforma, proforma_title, particulars, created_at, updated_at`

// Create persiste la venta y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO sales (` + saleColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
		_, err := tx.Exec(ctx, query,
			sale.ID, sale.BusinessID, sale.Date, sale.Subtotal, sale.VAT, sale.DeliveryFee, sale.Total,
			nullIfEmpty(sale.PaymentMethod), nullIfEmpty(sale.Cashier), nullIfEmpty(sale.CustomerID),
			nullIfEmpty(sale.LocationID), sale.IsProforma, nullIfEmpty(sale.ProformaTitle),
			nullIfEmpty(sale.Particulars), sale.CreatedAt, sale.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("sale already exists: %w", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert sale: %w", err)
		}
		return insertSaleItems(ctx, tx, sale)
	})
}

// Update reemplaza cabecera y líneas. ID, business_id y created_at no cambian.
func (r *SaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE sales
			SET subtotal = $3, vat = $4, delivery_fee = $5, total = $6, payment_method = $7,
			    customer_id = $8, is_proforma = $9, proforma_title = $10, particulars = $11, updated_at = $12
			WHERE id = $1 AND business_id = $2`
		tag, err := tx.Exec(ctx, query,
			sale.ID, sale.BusinessID, sale.Subtotal, sale.VAT, sale.DeliveryFee, sale.Total,
			nullIfEmpty(sale.PaymentMethod), nullIfEmpty(sale.CustomerID), sale.IsProforma,
			nullIfEmpty(sale.ProformaTitle), nullIfEmpty(sale.Particulars), sale.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, sale.ID); err != nil {
			return fmt.Errorf("delete sale items: %w", err)
		}
		return insertSaleItems(ctx, tx, sale)
	})
}

func (r *SaleRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertSaleItems(ctx context.Context, q Querier, sale *entity.Sale) error {
	query := `
		INSERT INTO sale_items (sale_id, position, entry_id, name, unit, quantity, price, discount, is_service, is_tracked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i, it := range sale.Items {
		_, err := q.Exec(ctx, query, sale.ID, i, it.ID, it.Name, it.Unit, it.Quantity, it.Price, it.Discount, it.IsService, it.IsTracked)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta del negocio con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 AND business_id = $2`
	sale, err := scanSale(r.pool.QueryRow(ctx, query, id, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{sale}); err != nil {
		return nil, err
	}
	return sale, nil
}

// ListByBusiness ventas del negocio por fecha descendente. limit <= 0 sin límite.
func (r *SaleRepo) ListByBusiness(ctx context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + ` FROM sales
		WHERE business_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC
		LIMIT NULLIF($4, 0) OFFSET $5`
	rows, err := r.pool.Query(ctx, query, businessID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var payment, cashier, customer, location, title, particulars *string
	err := row.Scan(&s.ID, &s.BusinessID, &s.Date, &s.Subtotal, &s.VAT, &s.DeliveryFee, &s.Total,
		&payment, &cashier, &customer, &location, &s.IsProforma, &title, &particulars, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.PaymentMethod, s.Cashier, s.CustomerID = fromNull(payment), fromNull(cashier), fromNull(customer)
	s.LocationID, s.ProformaTitle, s.Particulars = fromNull(location), fromNull(title), fromNull(particulars)
	return &s, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, list []*entity.Sale) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	byID := make(map[string]*entity.Sale, len(list))
	for i, s := range list {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	query := `
		SELECT sale_id, entry_id, name, unit, quantity, price, discount, is_service, is_tracked
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, position`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var saleID string
		var it entity.SaleItem
		if err := rows.Scan(&saleID, &it.ID, &it.Name, &it.Unit, &it.Quantity, &it.Price, &it.Discount, &it.IsService, &it.IsTracked); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s := byID[saleID]; s != nil {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}
