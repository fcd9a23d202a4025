package memory

import (
	"sync"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
)

type stockKey struct {
	productID  string
	locationID string
}

// Store es el almacén en memoria (desarrollo, demo y pruebas). Un único mutex protege todo el estado.
type Store struct {
	mu        sync.Mutex
	stock     map[stockKey]entity.StockEntry
	movements []entity.StockMovement
	products  map[string][]entity.Product
	services  map[string][]entity.Service
	groups    map[string][]entity.CategoryGroup
	sales     map[string]entity.Sale
	settings  map[string]entity.TenantSettings
	customers map[string]entity.Customer
	locations map[string]entity.Location
	pending   map[string]entity.PendingDecrement
	// groupsErr simula una falla al cargar la configuración de grupos.
	groupsErr error
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{
		stock:     make(map[stockKey]entity.StockEntry),
		products:  make(map[string][]entity.Product),
		services:  make(map[string][]entity.Service),
		groups:    make(map[string][]entity.CategoryGroup),
		sales:     make(map[string]entity.Sale),
		settings:  make(map[string]entity.TenantSettings),
		customers: make(map[string]entity.Customer),
		locations: make(map[string]entity.Location),
		pending:   make(map[string]entity.PendingDecrement),
	}
}

// PutProduct agrega un producto al catálogo del negocio.
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.BusinessID] = append(s.products[p.BusinessID], p)
}

// PutService agrega un servicio al catálogo del negocio.
func (s *Store) PutService(svc entity.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.BusinessID] = append(s.services[svc.BusinessID], svc)
}

// PutCategoryGroup registra la configuración de control de stock de un grupo.
func (s *Store) PutCategoryGroup(g entity.CategoryGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.BusinessID] = append(s.groups[g.BusinessID], g)
}

// PutSettings guarda la configuración del negocio.
func (s *Store) PutSettings(st entity.TenantSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[st.BusinessID] = st
}

// PutCustomer guarda un cliente.
func (s *Store) PutCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

// PutLocation registra una ubicación del negocio.
func (s *Store) PutLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

// SetStock fija la cantidad de una fila sin registrar movimiento (carga inicial).
func (s *Store) SetStock(productID, locationID string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[stockKey{productID, locationID}] = entity.StockEntry{ProductID: productID, LocationID: locationID, Quantity: qty}
}

// FailCategoryGroups hace que ListCategoryGroups devuelva err (nil restablece).
func (s *Store) FailCategoryGroups(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupsErr = err
}
