package catalog

import (
	"strings"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

const (
	defaultProductUnit = "und"
	defaultServiceUnit = "servicio"
)

// Snapshot catálogo normalizado de un negocio, cargado al abrir una sesión de POS.
type Snapshot struct {
	BusinessID       string                 `json:"business_id"`
	Entries          []*entity.CatalogEntry `json:"entries"`
	TrackingDegraded bool                   `json:"tracking_degraded"`
	LoadedAt         time.Time              `json:"loaded_at"`
}

// Find busca una entrada por ID.
func (s *Snapshot) Find(id string) (*entity.CatalogEntry, bool) {
	if s == nil {
		return nil, false
	}
	id = strings.TrimSpace(id)
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// fromProduct normaliza una fila de productos. Devuelve nil para filas marcadas como servicio
// (datos heredados), que se descartan; los servicios solo vienen de la tabla de servicios.
func fromProduct(p *entity.Product, cfg TrackingConfig) *entity.CatalogEntry {
	if p == nil || p.IsService {
		return nil
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.TrimSpace(p.SKU)
	}
	if name == "" {
		name = p.ID
	}
	unit := strings.TrimSpace(p.UnitMeasure)
	if unit == "" {
		unit = defaultProductUnit
	}
	group := normalizeGroup(p.CategoryGroup)
	return &entity.CatalogEntry{
		ID:               p.ID,
		Name:             name,
		UnitPrice:        p.Price,
		UnitOfMeasure:    unit,
		CategoryGroup:    group,
		IsService:        false,
		IsTrackedStock:   cfg.IsTracked(group, false),
		CurrentStockHint: p.StockHint,
	}
}

// fromService normaliza una fila de servicios (rate/unit/category).
func fromService(s *entity.Service) *entity.CatalogEntry {
	if s == nil {
		return nil
	}
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = s.ID
	}
	unit := strings.TrimSpace(s.Unit)
	if unit == "" {
		unit = defaultServiceUnit
	}
	return &entity.CatalogEntry{
		ID:            s.ID,
		Name:          name,
		UnitPrice:     s.Rate,
		UnitOfMeasure: unit,
		CategoryGroup: normalizeGroup(s.Category),
		IsService:     true,
	}
}
