package pos

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/pricing"
)

// LineItem línea del carrito; CatalogEntryID identifica la entrada del catálogo.
type LineItem struct {
	CatalogEntryID string          `json:"catalog_entry_id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitOfMeasure  string          `json:"unit_of_measure"`
	CategoryGroup  string          `json:"category_group"`
	IsService      bool            `json:"is_service"`
	IsTracked      bool            `json:"is_tracked"`
	Quantity       int             `json:"quantity"`
	Discount       decimal.Decimal `json:"discount"`
}

// gated indica si la línea participa en la verificación de stock.
func (l LineItem) gated() bool {
	return l.IsTracked && !l.IsService
}

// Availability es la vista consultiva del stock en la ubicación del operador.
// Puede estar desactualizada; la verificación autoritativa la hace el libro de stock.
type Availability interface {
	Available(entryID string) (int64, bool)
}

// StockSnapshot cantidades por producto en la ubicación, cargadas al abrir la sesión.
type StockSnapshot map[string]int64

// Available devuelve la cantidad conocida y si el producto tiene fila en la ubicación.
func (s StockSnapshot) Available(entryID string) (int64, bool) {
	q, ok := s[entryID]
	return q, ok
}

// Cart selección en curso. Es un valor simple: no conoce el modo cotización;
// quien llama pasa gate nil para omitir la verificación de stock.
type Cart struct {
	Lines []LineItem `json:"lines"`
}

func (c *Cart) index(entryID string) int {
	entryID = strings.TrimSpace(entryID)
	for i := range c.Lines {
		if c.Lines[i].CatalogEntryID == entryID {
			return i
		}
	}
	return -1
}

// AddItem agrega la entrada con cantidad 1 o incrementa la línea existente.
// Con gate activo, una entrada con control de stock sin existencias conocidas devuelve
// domain.ErrOutOfStock sin modificar el carrito.
func (c *Cart) AddItem(entry *entity.CatalogEntry, gate Availability) error {
	if entry == nil || strings.TrimSpace(entry.ID) == "" {
		return domain.ErrInvalidInput
	}
	if gate != nil && entry.IsTrackedStock && !entry.IsService {
		if q, ok := gate.Available(entry.ID); !ok || q <= 0 {
			return domain.ErrOutOfStock
		}
	}
	if i := c.index(entry.ID); i >= 0 {
		c.Lines[i].Quantity++
		return nil
	}
	c.Lines = append(c.Lines, LineItem{
		CatalogEntryID: entry.ID,
		Name:           entry.Name,
		UnitPrice:      entry.UnitPrice,
		UnitOfMeasure:  entry.UnitOfMeasure,
		CategoryGroup:  entry.CategoryGroup,
		IsService:      entry.IsService,
		IsTracked:      entry.IsTrackedStock,
		Quantity:       1,
		Discount:       decimal.Zero,
	})
	return nil
}

// SetQuantity fija la cantidad de una línea (mínimo 1). Con gate activo, una línea con
// control de stock no puede superar lo disponible: domain.ErrInsufficientStock, carrito intacto.
func (c *Cart) SetQuantity(entryID string, n int, gate Availability) error {
	i := c.index(entryID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if n < 1 {
		n = 1
	}
	line := c.Lines[i]
	if gate != nil && line.gated() {
		q, _ := gate.Available(line.CatalogEntryID)
		if int64(n) > q {
			return domain.ErrInsufficientStock
		}
	}
	c.Lines[i].Quantity = n
	return nil
}

// RemoveItem quita la línea si existe.
func (c *Cart) RemoveItem(entryID string) {
	if i := c.index(entryID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Reset vacía el carrito.
func (c *Cart) Reset() {
	c.Lines = nil
}

// IsEmpty indica si no hay líneas.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Totals recalcula subtotal, IVA y total en cada llamada.
func (c *Cart) Totals(vatRatePercent decimal.Decimal, details OrderDetails) pricing.Totals {
	lines := make([]pricing.Line, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
	}
	return pricing.Compute(lines, vatRatePercent, details.Delivery())
}

// OrderDetails campos transitorios del cobro; IsProforma es el modo cotización.
type OrderDetails struct {
	CustomerID      string          `json:"customer_id"`
	PaymentMethod   string          `json:"payment_method"`
	Particulars     string          `json:"particulars"`
	ProformaTitle   string          `json:"proforma_title"`
	IsProforma      bool            `json:"is_proforma"`
	DeliveryEnabled bool            `json:"delivery_enabled"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	IsEditing       bool            `json:"is_editing"`
	EditingSaleID   string          `json:"editing_sale_id"`
}

// Delivery valor del domicilio aplicable (cero si está deshabilitado).
func (d OrderDetails) Delivery() decimal.Decimal {
	if !d.DeliveryEnabled {
		return decimal.Zero
	}
	return d.DeliveryFee
}

// Gate devuelve la disponibilidad a usar en el carrito: nil en modo cotización.
func (d OrderDetails) Gate(stock Availability) Availability {
	if d.IsProforma {
		return nil
	}
	return stock
}

// Clear limpia cliente, proforma, pago, particulares, domicilio y edición.
func (d *OrderDetails) Clear() {
	*d = OrderDetails{DeliveryFee: decimal.Zero}
}
