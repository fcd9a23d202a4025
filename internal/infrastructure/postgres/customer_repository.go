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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// GetByID obtiene un cliente del negocio por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	query := `
		SELECT id, business_id, name, tax_id, email, phone, address, created_at, updated_at
		FROM customers WHERE id = $1 AND business_id = $2`
	var c entity.Customer
	var taxID, email, phone, address *string
	err := r.q.QueryRow(ctx, query, id, businessID).Scan(
		&c.ID, &c.BusinessID, &c.Name, &taxID, &email, &phone, &address, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.TaxID, c.Email, c.Phone, c.Address = fromNull(taxID), fromNull(email), fromNull(phone), fromNull(address)
	return &c, nil
}
