package pos

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-pos/internal/domain"
)

// Session terminal de POS abierta por un operador: carrito, detalles del cobro y snapshot de stock.
type Session struct {
	ID         string        `json:"id"`
	BusinessID string        `json:"business_id"`
	UserID     string        `json:"user_id"`
	LocationID string        `json:"location_id"`
	Cart       Cart          `json:"cart"`
	Details    OrderDetails  `json:"details"`
	Stock      StockSnapshot `json:"stock"`
	OpenedAt   time.Time     `json:"opened_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// CheckoutSaleID ID reservado para la venta del cobro en curso; se limpia al completarlo.
	CheckoutSaleID string `json:"checkout_sale_id,omitempty"`
}

// SessionStore persiste sesiones. Get devuelve domain.ErrNotFound si no existe o expiró.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// Locker exclusión por clave. Lock devuelve domain.ErrBusy si la clave ya está tomada.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// MemorySessionStore guarda sesiones en el proceso (copias serializadas, con expiración).
type MemorySessionStore struct {
	mu   sync.Mutex
	data map[string]memorySession
	ttl  time.Duration
	now  func() time.Time
}

type memorySession struct {
	raw     []byte
	expires time.Time
}

// NewMemorySessionStore construye el store; ttl <= 0 desactiva la expiración.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{data: make(map[string]memorySession), ttl: ttl, now: time.Now}
}

// Get devuelve una copia de la sesión.
func (m *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.data, id)
		return nil, domain.ErrNotFound
	}
	var s Session
	if err := json.Unmarshal(e.raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save guarda la sesión y renueva su expiración.
func (m *MemorySessionStore) Save(_ context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memorySession{raw: raw}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.data[s.ID] = e
	return nil
}

// Delete elimina la sesión.
func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// LocalLocker exclusión por clave dentro del proceso (una sola instancia del servicio).
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalLocker construye el locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]bool)}
}

// Lock toma la clave sin esperar.
func (l *LocalLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, domain.ErrBusy
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, nil
}
