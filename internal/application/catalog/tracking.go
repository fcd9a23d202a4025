package catalog

import (
	"strings"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// TrackingConfig indica qué grupos de categoría llevan control de stock.
// Se construye explícitamente a partir de la configuración del negocio; no hay estado global.
type TrackingConfig struct {
	tracked    map[string]bool
	failClosed bool
}

// NewTrackingConfig construye la configuración a partir de los grupos del negocio.
func NewTrackingConfig(groups []*entity.CategoryGroup) TrackingConfig {
	cfg := TrackingConfig{tracked: make(map[string]bool, len(groups))}
	for _, g := range groups {
		if g == nil {
			continue
		}
		cfg.tracked[normalizeGroup(g.Group)] = g.IsStockTracked
	}
	return cfg
}

// FailClosedTracking se usa cuando la configuración no pudo cargarse:
// todo ítem de la tabla de productos se considera con control de stock.
func FailClosedTracking() TrackingConfig {
	return TrackingConfig{failClosed: true}
}

// Degraded indica si la configuración es la de respaldo.
func (c TrackingConfig) Degraded() bool {
	return c.failClosed
}

// IsTracked clasifica un ítem. Los servicios nunca llevan control de stock.
func (c TrackingConfig) IsTracked(group string, isService bool) bool {
	if isService {
		return false
	}
	if c.failClosed {
		return true
	}
	return c.tracked[normalizeGroup(group)]
}

func normalizeGroup(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}
