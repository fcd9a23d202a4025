package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest body para POST /api/pos/sessions. LocationID vacío usa la ubicación por defecto.
type OpenSessionRequest struct {
	LocationID string `json:"location_id,omitempty" validate:"omitempty,max=64"`
}

// AddItemRequest body para POST /api/pos/sessions/:id/items.
type AddItemRequest struct {
	EntryID string `json:"entry_id" validate:"required,max=64"`
}

// SetQuantityRequest body para PUT /api/pos/sessions/:id/items/:entryId.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// UpdateDetailsRequest body para PUT /api/pos/sessions/:id/details.
type UpdateDetailsRequest struct {
	CustomerID      string           `json:"customer_id,omitempty" validate:"omitempty,max=64"`
	PaymentMethod   string           `json:"payment_method,omitempty" validate:"omitempty,max=40"`
	Particulars     string           `json:"particulars,omitempty" validate:"omitempty,max=500"`
	ProformaTitle   string           `json:"proforma_title,omitempty" validate:"omitempty,max=120"`
	IsProforma      bool             `json:"is_proforma"`
	DeliveryEnabled bool             `json:"delivery_enabled"`
	DeliveryFee     *decimal.Decimal `json:"delivery_fee,omitempty"`
}

// CartLineDTO línea del carrito.
type CartLineDTO struct {
	EntryID       string          `json:"entry_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	CategoryGroup string          `json:"category_group"`
	IsService     bool            `json:"is_service"`
	IsTracked     bool            `json:"is_tracked"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
	Available     *int64          `json:"available,omitempty"`
}

// OrderDetailsDTO datos del cobro.
type OrderDetailsDTO struct {
	CustomerID      string          `json:"customer_id,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Particulars     string          `json:"particulars,omitempty"`
	ProformaTitle   string          `json:"proforma_title,omitempty"`
	IsProforma      bool            `json:"is_proforma"`
	DeliveryEnabled bool            `json:"delivery_enabled"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	IsEditing       bool            `json:"is_editing"`
	EditingSaleID   string          `json:"editing_sale_id,omitempty"`
}

// TotalsDTO totales del carrito o de la venta.
type TotalsDTO struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	VAT         decimal.Decimal `json:"vat"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// SessionResponse sesión de POS con carrito y totales.
type SessionResponse struct {
	ID             string          `json:"id"`
	LocationID     string          `json:"location_id"`
	Lines          []CartLineDTO   `json:"lines"`
	Details        OrderDetailsDTO `json:"details"`
	Totals         TotalsDTO       `json:"totals"`
	CurrencySymbol string          `json:"currency_symbol"`
	OpenedAt       time.Time       `json:"opened_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StockWarningDTO descuento de stock no aplicado tras guardar la venta.
type StockWarningDTO struct {
	EntryID  string `json:"entry_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
	Queued   bool   `json:"queued"`
}

// RejectedItemDTO ítem rechazado por el almacén de ventas.
type RejectedItemDTO struct {
	Index   int    `json:"index"`
	EntryID string `json:"entry_id"`
	Name    string `json:"name"`
	Reason  string `json:"reason"`
}

// CheckoutResponse resultado de POST /api/pos/sessions/:id/checkout.
type CheckoutResponse struct {
	State         string            `json:"state"`
	Outcome       string            `json:"outcome"`
	Sale          SaleResponse      `json:"sale"`
	Totals        TotalsDTO         `json:"totals"`
	InsertedCount int               `json:"inserted_count"`
	StockWarnings []StockWarningDTO `json:"stock_warnings"`
	RejectedItems []RejectedItemDTO `json:"rejected_items"`
	ReceiptURL    string            `json:"receipt_url"`
}
