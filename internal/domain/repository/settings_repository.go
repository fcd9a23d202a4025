package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// SettingsRepository lectura de la configuración del negocio.
type SettingsRepository interface {
	GetByBusiness(ctx context.Context, businessID string) (*entity.TenantSettings, error)
}
