package entity

import "github.com/shopspring/decimal"

// CatalogEntry es la forma normalizada de un producto o servicio vendible en el POS.
type CatalogEntry struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitOfMeasure    string          `json:"unit_of_measure"`
	CategoryGroup    string          `json:"category_group"`
	IsService        bool            `json:"is_service"`
	IsTrackedStock   bool            `json:"is_tracked_stock"`
	CurrentStockHint int64           `json:"current_stock_hint"`
}
