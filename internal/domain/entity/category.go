package entity

// CategoryGroup indica si un grupo de categorías lleva control de stock ("product") o no ("service").
type CategoryGroup struct {
	BusinessID     string
	Group          string
	IsStockTracked bool
}
