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

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo lectura de la configuración del negocio (tabla businesses).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetByBusiness obtiene la configuración o domain.ErrNotFound.
func (r *SettingsRepo) GetByBusiness(ctx context.Context, businessID string) (*entity.TenantSettings, error) {
	query := `
		SELECT id, name, address, phone, vat_rate_percent, currency_symbol, default_location_id
		FROM businesses WHERE id = $1`
	var s entity.TenantSettings
	var address, phone, location *string
	err := r.q.QueryRow(ctx, query, businessID).Scan(
		&s.BusinessID, &s.BusinessName, &address, &phone, &s.VATRatePercent, &s.CurrencySymbol, &location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get business settings: %w", err)
	}
	s.Address, s.Phone, s.DefaultLocationID = fromNull(address), fromNull(phone), fromNull(location)
	return &s, nil
}
