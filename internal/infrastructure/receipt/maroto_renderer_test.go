package receipt

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

func sampleSale() *entity.Sale {
	return &entity.Sale{
		ID:   "c0ffee00-1234-5678-9abc-def012345678",
		Date: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Items: []entity.SaleItem{
			{ID: "prd-cafe", Name: "Café 500g", Unit: "und", Quantity: 2, Price: decimal.NewFromInt(18000), IsTracked: true},
			{ID: "srv-domicilio", Name: "Domicilio", Unit: "servicio", Quantity: 1, Price: decimal.NewFromInt(6000), IsService: true},
		},
		Subtotal:      decimal.NewFromInt(42000),
		VAT:           decimal.NewFromInt(7980),
		DeliveryFee:   decimal.NewFromInt(3000),
		Total:         decimal.NewFromInt(52980),
		PaymentMethod: "efectivo",
		Cashier:       "Ana",
	}
}

func sampleSettings() *entity.TenantSettings {
	return &entity.TenantSettings{
		BusinessID:     "demo",
		BusinessName:   "Tienda Demo",
		Address:        "Calle 1 # 2-3",
		VATRatePercent: decimal.NewFromInt(19),
		CurrencySymbol: "$",
	}
}

func TestRender_Variants(t *testing.T) {
	r := NewMarotoRenderer("es-CO")
	customer := &entity.Customer{ID: "cli-001", Name: "Cliente Mostrador", TaxID: "900123"}

	for _, v := range []pos.ReceiptVariant{pos.ReceiptCompact, pos.ReceiptFull} {
		t.Run(string(v), func(t *testing.T) {
			doc, err := r.Render(context.Background(), sampleSale(), sampleSettings(), customer, v)
			require.NoError(t, err)
			assert.Equal(t, v, doc.Variant)
			assert.Equal(t, "application/pdf", doc.ContentType)
			assert.Contains(t, doc.Filename, string(v))
			require.NotEmpty(t, doc.Bytes)
			assert.Equal(t, "%PDF", string(doc.Bytes[:4]))
		})
	}
}

func TestRender_ProformaWithoutCustomer(t *testing.T) {
	sale := sampleSale()
	sale.IsProforma = true
	sale.ProformaTitle = "Cotización"

	doc, err := NewMarotoRenderer("es").Render(context.Background(), sale, sampleSettings(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, pos.ReceiptCompact, doc.Variant)
	assert.NotEmpty(t, doc.Bytes)
}

func TestRender_DoesNotMutateSale(t *testing.T) {
	sale := sampleSale()
	before := *sale
	before.Items = append([]entity.SaleItem(nil), sale.Items...)

	_, err := NewMarotoRenderer("es-CO").Render(context.Background(), sale, sampleSettings(), nil, pos.ReceiptFull)
	require.NoError(t, err)
	assert.Equal(t, before, *sale)
}

func TestRender_Errors(t *testing.T) {
	r := NewMarotoRenderer("es-CO")
	_, err := r.Render(context.Background(), nil, sampleSettings(), nil, pos.ReceiptCompact)
	assert.Error(t, err)

	_, err = r.Render(context.Background(), sampleSale(), sampleSettings(), nil, "ticket")
	assert.Error(t, err)
}

func TestMoney_UsesLocaleGrouping(t *testing.T) {
	r := NewMarotoRenderer("es-CO")
	got := r.money(sampleSettings(), decimal.NewFromInt(52980))
	assert.Equal(t, "$", got[:1])
	assert.Contains(t, got, "52")
	assert.Contains(t, got, "980")
}
