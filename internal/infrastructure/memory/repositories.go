package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var (
	_ repository.CatalogRepository          = (*CatalogRepository)(nil)
	_ repository.SaleRepository             = (*SaleRepository)(nil)
	_ repository.SettingsRepository         = (*SettingsRepository)(nil)
	_ repository.CustomerRepository         = (*CustomerRepository)(nil)
	_ repository.PendingDecrementRepository = (*PendingDecrementRepository)(nil)
	_ repository.ProductRepository          = (*ProductRepository)(nil)
	_ repository.LocationRepository         = (*LocationRepository)(nil)
)

// CatalogRepository lectura del catálogo en memoria.
type CatalogRepository struct{ s *Store }

// NewCatalogRepository construye el repositorio.
func NewCatalogRepository(s *Store) *CatalogRepository { return &CatalogRepository{s: s} }

// ListProducts productos del negocio con StockHint calculado sobre todas las ubicaciones.
func (r *CatalogRepository) ListProducts(_ context.Context, businessID string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.products[businessID]))
	for _, p := range r.s.products[businessID] {
		p := p
		p.StockHint = 0
		for k, e := range r.s.stock {
			if k.productID == p.ID {
				p.StockHint += e.Quantity
			}
		}
		out = append(out, &p)
	}
	return out, nil
}

// ListServices servicios del negocio.
func (r *CatalogRepository) ListServices(_ context.Context, businessID string) ([]*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Service, 0, len(r.s.services[businessID]))
	for _, svc := range r.s.services[businessID] {
		svc := svc
		out = append(out, &svc)
	}
	return out, nil
}

// ListCategoryGroups configuración de grupos del negocio.
func (r *CatalogRepository) ListCategoryGroups(_ context.Context, businessID string) ([]*entity.CategoryGroup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.groupsErr != nil {
		return nil, r.s.groupsErr
	}
	out := make([]*entity.CategoryGroup, 0, len(r.s.groups[businessID]))
	for _, g := range r.s.groups[businessID] {
		g := g
		out = append(out, &g)
	}
	return out, nil
}

// SaleRepository ventas en memoria.
type SaleRepository struct{ s *Store }

// NewSaleRepository construye el repositorio.
func NewSaleRepository(s *Store) *SaleRepository { return &SaleRepository{s: s} }

func cloneSale(sale *entity.Sale) entity.Sale {
	c := *sale
	c.Items = append([]entity.SaleItem(nil), sale.Items...)
	return c
}

// Create guarda una venta nueva.
func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

// Update reemplaza la venta conservando su fecha de creación.
func (r *SaleRepository) Update(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.sales[sale.ID]
	if !ok || prev.BusinessID != sale.BusinessID {
		return domain.ErrNotFound
	}
	c := cloneSale(sale)
	c.CreatedAt = prev.CreatedAt
	r.s.sales[sale.ID] = c
	return nil
}

// GetByID devuelve la venta del negocio o domain.ErrNotFound.
func (r *SaleRepository) GetByID(_ context.Context, businessID, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	c := cloneSale(&sale)
	return &c, nil
}

// ListByBusiness ventas del negocio por fecha descendente.
func (r *SaleRepository) ListByBusiness(_ context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Sale{}
	for _, sale := range r.s.sales {
		if sale.BusinessID != businessID {
			continue
		}
		if from != nil && sale.Date.Before(*from) {
			continue
		}
		if to != nil && sale.Date.After(*to) {
			continue
		}
		c := cloneSale(&sale)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// SettingsRepository configuración de negocios en memoria.
type SettingsRepository struct{ s *Store }

// NewSettingsRepository construye el repositorio.
func NewSettingsRepository(s *Store) *SettingsRepository { return &SettingsRepository{s: s} }

// GetByBusiness devuelve la configuración o domain.ErrNotFound.
func (r *SettingsRepository) GetByBusiness(_ context.Context, businessID string) (*entity.TenantSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.settings[businessID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &st, nil
}

// CustomerRepository clientes en memoria.
type CustomerRepository struct{ s *Store }

// NewCustomerRepository construye el repositorio.
func NewCustomerRepository(s *Store) *CustomerRepository { return &CustomerRepository{s: s} }

// GetByID devuelve el cliente del negocio o domain.ErrNotFound.
func (r *CustomerRepository) GetByID(_ context.Context, businessID, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok || c.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// PendingDecrementRepository cola de conciliación en memoria.
// Con tx != nil opera dentro de Run: lee a través de la tx y solo escribe en ella.
type PendingDecrementRepository struct {
	s  *Store
	tx *txState
}

// NewPendingDecrementRepository construye el repositorio.
func NewPendingDecrementRepository(s *Store) *PendingDecrementRepository {
	return &PendingDecrementRepository{s: s}
}

func (r *PendingDecrementRepository) lock() func() {
	if r.tx != nil {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *PendingDecrementRepository) read(id string) (entity.PendingDecrement, bool) {
	if r.tx != nil {
		if p, ok := r.tx.pending[id]; ok {
			return p, true
		}
	}
	p, ok := r.s.pending[id]
	return p, ok
}

func (r *PendingDecrementRepository) write(p entity.PendingDecrement) {
	if r.tx != nil {
		r.tx.pending[p.ID] = p
		return
	}
	r.s.pending[p.ID] = p
}

// Create agrega un pendiente.
func (r *PendingDecrementRepository) Create(_ context.Context, p *entity.PendingDecrement) error {
	defer r.lock()()
	r.write(*p)
	return nil
}

// ListPending no aplicados por antigüedad; businessID vacío lista todos.
func (r *PendingDecrementRepository) ListPending(_ context.Context, businessID string, limit int) ([]*entity.PendingDecrement, error) {
	defer r.lock()()
	out := r.filter(businessID, func(p entity.PendingDecrement) bool {
		return p.Status != entity.PendingStatusApplied
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Claim pasa a PROCESSING hasta limit filas reclamables, las menos recientemente tocadas primero.
func (r *PendingDecrementRepository) Claim(_ context.Context, businessID string, limit int, now, staleBefore time.Time) ([]*entity.PendingDecrement, error) {
	defer r.lock()()
	out := r.filter(businessID, func(p entity.PendingDecrement) bool {
		return p.Status == entity.PendingStatusPending ||
			(p.Status == entity.PendingStatusProcessing && p.UpdatedAt.Before(staleBefore))
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	for _, p := range out {
		p.Status = entity.PendingStatusProcessing
		p.Attempts++
		p.UpdatedAt = now
		r.write(*p)
	}
	return out, nil
}

func (r *PendingDecrementRepository) filter(businessID string, match func(entity.PendingDecrement) bool) []*entity.PendingDecrement {
	seen := make(map[string]bool)
	out := []*entity.PendingDecrement{}
	add := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		p, _ := r.read(id)
		if (businessID != "" && p.BusinessID != businessID) || !match(p) {
			return
		}
		out = append(out, &p)
	}
	if r.tx != nil {
		for id := range r.tx.pending {
			add(id)
		}
	}
	for id := range r.s.pending {
		add(id)
	}
	return out
}

// Update guarda el resultado de una fila reclamada (PROCESSING con el mismo Attempts).
func (r *PendingDecrementRepository) Update(_ context.Context, p *entity.PendingDecrement) error {
	defer r.lock()()
	prev, ok := r.read(p.ID)
	if !ok || prev.Status != entity.PendingStatusProcessing || prev.Attempts != p.Attempts {
		return domain.ErrNotFound
	}
	r.write(*p)
	return nil
}

// ProductRepository lectura de productos por ID.
type ProductRepository struct{ s *Store }

// NewProductRepository construye el repositorio.
func NewProductRepository(s *Store) *ProductRepository { return &ProductRepository{s: s} }

// GetByID devuelve el producto o domain.ErrNotFound.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, list := range r.s.products {
		for _, p := range list {
			if p.ID == id {
				p := p
				return &p, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// LocationRepository ubicaciones en memoria.
type LocationRepository struct{ s *Store }

// NewLocationRepository construye el repositorio.
func NewLocationRepository(s *Store) *LocationRepository { return &LocationRepository{s: s} }

// GetByID devuelve la ubicación o domain.ErrNotFound.
func (r *LocationRepository) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}
