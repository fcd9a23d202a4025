package pos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

func tracked(id string, price int64) *entity.CatalogEntry {
	return &entity.CatalogEntry{ID: id, Name: id, UnitPrice: decimal.NewFromInt(price), UnitOfMeasure: "und", IsTrackedStock: true}
}

func service(id string, price int64) *entity.CatalogEntry {
	return &entity.CatalogEntry{ID: id, Name: id, UnitPrice: decimal.NewFromInt(price), IsService: true}
}

func TestCart_AddSameEntryIncrements(t *testing.T) {
	var c Cart
	gate := StockSnapshot{"p1": 10}
	for i := 0; i < 4; i++ {
		require.NoError(t, c.AddItem(tracked("p1", 10), gate))
	}
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 4, c.Lines[0].Quantity)
}

func TestCart_AddOutOfStock(t *testing.T) {
	var c Cart
	gate := StockSnapshot{"p1": 0}

	assert.ErrorIs(t, c.AddItem(tracked("p1", 10), gate), domain.ErrOutOfStock)
	assert.ErrorIs(t, c.AddItem(tracked("unknown", 10), gate), domain.ErrOutOfStock)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.AddItem(service("s1", 5), gate))
	assert.Len(t, c.Lines, 1)
}

func TestCart_QuoteModeSkipsGate(t *testing.T) {
	var c Cart
	details := OrderDetails{IsProforma: true}
	gate := details.Gate(StockSnapshot{})

	require.NoError(t, c.AddItem(tracked("p1", 10), gate))
	require.NoError(t, c.SetQuantity("p1", 50, gate))
	assert.Equal(t, 50, c.Lines[0].Quantity)
}

func TestCart_SetQuantity(t *testing.T) {
	var c Cart
	gate := StockSnapshot{"p1": 3}
	require.NoError(t, c.AddItem(tracked("p1", 10), gate))

	assert.ErrorIs(t, c.SetQuantity("p1", 4, gate), domain.ErrInsufficientStock)
	assert.Equal(t, 1, c.Lines[0].Quantity)

	require.NoError(t, c.SetQuantity("p1", 3, gate))
	assert.Equal(t, 3, c.Lines[0].Quantity)

	require.NoError(t, c.SetQuantity("p1", -7, gate))
	assert.Equal(t, 1, c.Lines[0].Quantity)

	assert.ErrorIs(t, c.SetQuantity("missing", 2, gate), domain.ErrNotFound)
}

func TestCart_RemoveAndReset(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(service("s1", 5), nil))
	require.NoError(t, c.AddItem(service("s2", 5), nil))
	c.RemoveItem("s1")
	c.RemoveItem("nope")
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "s2", c.Lines[0].CatalogEntryID)
	c.Reset()
	assert.True(t, c.IsEmpty())
}

func TestCart_TotalsScenarioA(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(tracked("p1", 10), StockSnapshot{"p1": 5}))
	require.NoError(t, c.SetQuantity("p1", 2, StockSnapshot{"p1": 5}))

	totals := c.Totals(decimal.RequireFromString("7.5"), OrderDetails{})
	assert.Equal(t, "20", totals.Subtotal.String())
	assert.Equal(t, "1.5", totals.VAT.String())
	assert.Equal(t, "21.5", totals.Total.String())

	withDelivery := c.Totals(decimal.RequireFromString("7.5"), OrderDetails{DeliveryEnabled: true, DeliveryFee: decimal.NewFromInt(4)})
	assert.Equal(t, "25.5", withDelivery.Total.String())

	disabled := c.Totals(decimal.RequireFromString("7.5"), OrderDetails{DeliveryEnabled: false, DeliveryFee: decimal.NewFromInt(4)})
	assert.Equal(t, "21.5", disabled.Total.String())
}

func TestOrderDetails_Clear(t *testing.T) {
	d := OrderDetails{CustomerID: "c1", IsProforma: true, PaymentMethod: "cash", DeliveryEnabled: true, IsEditing: true, EditingSaleID: "s1"}
	d.Clear()
	assert.Equal(t, "", d.CustomerID)
	assert.False(t, d.IsProforma)
	assert.False(t, d.IsEditing)
	assert.True(t, d.Delivery().IsZero())
}

func TestCleanLines(t *testing.T) {
	lines := []LineItem{
		{CatalogEntryID: " p1 ", Name: " Café ", UnitOfMeasure: " kg ", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		{CatalogEntryID: "p2", UnitPrice: decimal.NewFromInt(1), Quantity: 0},
		{CatalogEntryID: "  ", UnitPrice: decimal.NewFromInt(-1), Quantity: 1},
	}
	_, err := CleanLines(lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Lines, 2)
	assert.Equal(t, LineViolation{Index: 1, EntryID: "p2", Fields: []string{FieldQuantity}}, verr.Lines[0])
	assert.Equal(t, []string{FieldID, FieldPrice}, verr.Lines[1].Fields)

	items, err := CleanLines(lines[:1])
	require.NoError(t, err)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "Café", items[0].Name)
	assert.Equal(t, "kg", items[0].Unit)
}
