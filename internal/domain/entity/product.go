package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un artículo de la tabla de productos tal como lo entrega el catálogo.
// IsService existe porque hay datos heredados donde servicios quedaron cargados como productos.
type Product struct {
	ID            string
	BusinessID    string
	SKU           string
	Name          string
	Price         decimal.Decimal
	UnitMeasure   string
	CategoryGroup string
	IsService     bool
	StockHint     int64 // suma de stock en todas las ubicaciones al momento de la consulta
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Service es un ítem de la tabla de servicios; su forma difiere de Product (rate, unit, category).
type Service struct {
	ID         string
	BusinessID string
	Name       string
	Rate       decimal.Decimal
	Unit       string
	Category   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
