package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line es la vista mínima de una línea para el cálculo de totales.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals montos de una venta redondeados a 2 decimales.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	VAT         decimal.Decimal `json:"vat"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Compute implementa el cálculo de totales (servicio de dominio).
// Subtotal = Σ precio×cantidad; IVA = Subtotal × tasa/100; Total = Subtotal + IVA + domicilio.
// El descuento por línea se conserva en la línea pero no entra en el cálculo.
func Compute(lines []Line, vatRatePercent, deliveryFee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	vat := subtotal.Mul(vatRatePercent).Div(hundred)
	if deliveryFee.IsNegative() {
		deliveryFee = decimal.Zero
	}
	return Totals{
		Subtotal:    subtotal.Round(2),
		VAT:         vat.Round(2),
		DeliveryFee: deliveryFee.Round(2),
		Total:       subtotal.Add(vat).Add(deliveryFee).Round(2),
	}
}
