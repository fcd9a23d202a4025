package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es el registro de una venta (o proforma). Los ítems son una copia congelada del carrito.
type Sale struct {
	ID            string
	BusinessID    string
	Date          time.Time
	Items         []SaleItem
	Subtotal      decimal.Decimal
	VAT           decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Cashier       string
	CustomerID    string
	LocationID    string
	IsProforma    bool
	ProformaTitle string
	Particulars   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleItem línea limpia de una venta: ID es el ID de la entrada del catálogo.
type SaleItem struct {
	ID        string
	Name      string
	Unit      string
	Quantity  int
	Price     decimal.Decimal
	Discount  decimal.Decimal
	IsService bool
	IsTracked bool
}

// Motivos de rechazo de ítems por el almacén de ventas.
const (
	RejectUnknownItem     = "unknown_item"
	RejectInvalidQuantity = "invalid_quantity"
	RejectInvalidPrice    = "invalid_price"
)

// RejectedItem ítem no aceptado; Index es la posición en la lista enviada.
type RejectedItem struct {
	Index  int
	Item   SaleItem
	Reason string
}
