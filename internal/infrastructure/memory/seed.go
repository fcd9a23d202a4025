package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

// Identificadores del negocio de demostración.
const (
	DemoBusinessID  = "demo"
	DemoStoreID     = "loc-tienda"
	DemoWarehouseID = "loc-bodega"
	DemoCustomerID  = "cli-001"
)

// NewSeeded crea un almacén con un negocio de demostración: productos, servicios, grupos, ubicaciones, stock y cliente.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	s.PutSettings(entity.TenantSettings{
		BusinessID:        DemoBusinessID,
		BusinessName:      "Tienda Demo",
		Address:           "Calle 10 # 5-20",
		Phone:             "3000000000",
		VATRatePercent:    decimal.NewFromInt(19),
		CurrencySymbol:    "$",
		DefaultLocationID: DemoStoreID,
	})
	s.PutCategoryGroup(entity.CategoryGroup{BusinessID: DemoBusinessID, Group: "product", IsStockTracked: true})
	s.PutCategoryGroup(entity.CategoryGroup{BusinessID: DemoBusinessID, Group: "service", IsStockTracked: false})

	products := []entity.Product{
		{ID: "prd-cafe", SKU: "CAFE-500", Name: "Café molido 500g", Price: decimal.NewFromInt(18000), UnitMeasure: "und", CategoryGroup: "product"},
		{ID: "prd-azucar", SKU: "AZU-1K", Name: "Azúcar 1kg", Price: decimal.NewFromInt(5200), UnitMeasure: "kg", CategoryGroup: "product"},
		{ID: "prd-leche", SKU: "LEC-1L", Name: "Leche 1L", Price: decimal.NewFromInt(4300), UnitMeasure: "lt", CategoryGroup: "product"},
		{ID: "prd-bolsa", SKU: "BOL-01", Name: "Bolsa reutilizable", Price: decimal.NewFromInt(1500), UnitMeasure: "und", CategoryGroup: "service"},
	}
	for _, p := range products {
		p.BusinessID = DemoBusinessID
		p.CreatedAt, p.UpdatedAt = now, now
		s.PutProduct(p)
	}
	s.PutService(entity.Service{ID: "srv-domicilio", BusinessID: DemoBusinessID, Name: "Domicilio express", Rate: decimal.NewFromInt(6000), Unit: "servicio", Category: "service", CreatedAt: now, UpdatedAt: now})
	s.PutService(entity.Service{ID: "srv-empaque", BusinessID: DemoBusinessID, Name: "Empaque de regalo", Rate: decimal.NewFromInt(3000), Category: "service", CreatedAt: now, UpdatedAt: now})

	s.PutLocation(entity.Location{ID: DemoStoreID, BusinessID: DemoBusinessID, Name: "Tienda principal", CreatedAt: now, UpdatedAt: now})
	s.PutLocation(entity.Location{ID: DemoWarehouseID, BusinessID: DemoBusinessID, Name: "Bodega", CreatedAt: now, UpdatedAt: now})

	s.SetStock("prd-cafe", DemoStoreID, 20)
	s.SetStock("prd-cafe", DemoWarehouseID, 100)
	s.SetStock("prd-azucar", DemoStoreID, 35)
	s.SetStock("prd-leche", DemoStoreID, 12)

	s.PutCustomer(entity.Customer{ID: DemoCustomerID, BusinessID: DemoBusinessID, Name: "Cliente Mostrador", TaxID: "222222222", CreatedAt: now, UpdatedAt: now})
	return s
}
