package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesQuery filtros para GET /api/sales y /api/sales/summary (fechas RFC3339 o YYYY-MM-DD).
type SalesQuery struct {
	From string `query:"from"`
	To   string `query:"to"`
	PageRequest
}

// SaleItemDTO línea de una venta.
type SaleItemDTO struct {
	EntryID   string          `json:"entry_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	IsService bool            `json:"is_service"`
	IsTracked bool            `json:"is_tracked"`
}

// SaleResponse venta o proforma registrada.
type SaleResponse struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Items         []SaleItemDTO   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VAT           decimal.Decimal `json:"vat"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Cashier       string          `json:"cashier,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	LocationID    string          `json:"location_id,omitempty"`
	IsProforma    bool            `json:"is_proforma"`
	ProformaTitle string          `json:"proforma_title,omitempty"`
	Particulars   string          `json:"particulars,omitempty"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
