package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepository)(nil)
var _ repository.StockMovementRepository = (*StockMovementRepository)(nil)

// txState acumula las escrituras de una transacción; solo se aplican al Store en el commit.
type txState struct {
	stock     map[stockKey]entity.StockEntry
	movements []entity.StockMovement
	pending   map[string]entity.PendingDecrement
}

// StockRepository implementa repository.StockRepository sobre el Store.
// Con tx != nil opera dentro de Run (el mutex ya está tomado).
type StockRepository struct {
	s  *Store
	tx *txState
}

// NewStockRepository repositorio de stock fuera de transacción.
func NewStockRepository(s *Store) *StockRepository {
	return &StockRepository{s: s}
}

func (r *StockRepository) lock() func() {
	if r.tx != nil {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *StockRepository) read(k stockKey) (entity.StockEntry, bool) {
	if r.tx != nil {
		if e, ok := r.tx.stock[k]; ok {
			return e, true
		}
	}
	e, ok := r.s.stock[k]
	return e, ok
}

func (r *StockRepository) write(e entity.StockEntry) {
	k := stockKey{e.ProductID, e.LocationID}
	if r.tx != nil {
		r.tx.stock[k] = e
		return
	}
	r.s.stock[k] = e
}

// Get devuelve la fila o domain.ErrNotFound.
func (r *StockRepository) Get(_ context.Context, productID, locationID string) (*entity.StockEntry, error) {
	defer r.lock()()
	e, ok := r.read(stockKey{productID, locationID})
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// ListByProduct filas del producto ordenadas por ubicación.
func (r *StockRepository) ListByProduct(_ context.Context, productID string) ([]*entity.StockEntry, error) {
	defer r.lock()()
	return r.list(func(k stockKey) bool { return k.productID == productID }), nil
}

// ListByLocation filas de la ubicación ordenadas por producto.
func (r *StockRepository) ListByLocation(_ context.Context, locationID string) ([]*entity.StockEntry, error) {
	defer r.lock()()
	return r.list(func(k stockKey) bool { return k.locationID == locationID }), nil
}

func (r *StockRepository) list(match func(stockKey) bool) []*entity.StockEntry {
	seen := make(map[stockKey]bool)
	out := []*entity.StockEntry{}
	add := func(k stockKey) {
		if seen[k] || !match(k) {
			return
		}
		seen[k] = true
		e, _ := r.read(k)
		out = append(out, &e)
	}
	if r.tx != nil {
		for k := range r.tx.stock {
			add(k)
		}
	}
	for k := range r.s.stock {
		add(k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}

// Add suma qty creando la fila si no existe.
func (r *StockRepository) Add(_ context.Context, productID, locationID string, qty int64) (*entity.StockEntry, error) {
	defer r.lock()()
	e, ok := r.read(stockKey{productID, locationID})
	if !ok {
		e = entity.StockEntry{ProductID: productID, LocationID: locationID}
	}
	e.Quantity += qty
	e.UpdatedAt = time.Now()
	r.write(e)
	return &e, nil
}

// SubtractIfAvailable resta qty solo si la fila tiene al menos qty (check-and-set bajo el mutex).
func (r *StockRepository) SubtractIfAvailable(_ context.Context, productID, locationID string, qty int64) (*entity.StockEntry, error) {
	defer r.lock()()
	e, ok := r.read(stockKey{productID, locationID})
	if !ok || e.Quantity < qty {
		return nil, domain.ErrInsufficientStock
	}
	e.Quantity -= qty
	e.UpdatedAt = time.Now()
	r.write(e)
	return &e, nil
}

// StockMovementRepository implementa repository.StockMovementRepository sobre el Store.
type StockMovementRepository struct {
	s  *Store
	tx *txState
}

// NewStockMovementRepository repositorio de movimientos fuera de transacción.
func NewStockMovementRepository(s *Store) *StockMovementRepository {
	return &StockMovementRepository{s: s}
}

// Create agrega el movimiento al historial.
func (r *StockMovementRepository) Create(_ context.Context, m *entity.StockMovement) error {
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, *m)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

// ListByProduct devuelve el historial del producto, más reciente primero.
func (r *StockMovementRepository) ListByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	if r.tx == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	out := []*entity.StockMovement{}
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].ProductID == productID {
			m := r.s.movements[i]
			out = append(out, &m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Run ejecuta fn con repositorios atados a una transacción en memoria.
// Si fn devuelve error, ninguna escritura llega al Store.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	pendingRepo repository.PendingDecrementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &txState{
		stock:   make(map[stockKey]entity.StockEntry),
		pending: make(map[string]entity.PendingDecrement),
	}
	if err := fn(
		&StockRepository{s: s, tx: tx},
		&StockMovementRepository{s: s, tx: tx},
		&PendingDecrementRepository{s: s, tx: tx},
	); err != nil {
		return err
	}
	for k, e := range tx.stock {
		s.stock[k] = e
	}
	s.movements = append(s.movements, tx.movements...)
	for id, p := range tx.pending {
		s.pending[id] = p
	}
	return nil
}
