package entity

import "github.com/shopspring/decimal"

// TenantSettings configuración del negocio consumida en solo lectura (IVA, moneda, ubicación por defecto).
type TenantSettings struct {
	BusinessID        string
	BusinessName      string
	Address           string
	Phone             string
	VATRatePercent    decimal.Decimal
	CurrencySymbol    string
	DefaultLocationID string
}
