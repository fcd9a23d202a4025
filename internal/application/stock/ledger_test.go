package stock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
)

const testBusiness = "b1"

// newTestStore negocio b1 con producto p1 y ubicaciones L1, L2; negocio b2 con p2 y L9.
func newTestStore() *memory.Store {
	store := memory.New()
	store.PutProduct(entity.Product{ID: "p1", BusinessID: testBusiness, Name: "Café"})
	store.PutLocation(entity.Location{ID: "L1", BusinessID: testBusiness, Name: "Tienda"})
	store.PutLocation(entity.Location{ID: "L2", BusinessID: testBusiness, Name: "Bodega"})
	store.PutProduct(entity.Product{ID: "p2", BusinessID: "b2", Name: "Té"})
	store.PutLocation(entity.Location{ID: "L9", BusinessID: "b2", Name: "Otra tienda"})
	return store
}

func newTestLedgerWith(store *memory.Store, runner TxRunner) *Ledger {
	return NewLedger(runner,
		memory.NewStockRepository(store),
		memory.NewStockMovementRepository(store),
		memory.NewProductRepository(store),
		memory.NewLocationRepository(store),
		zerolog.Nop(),
	)
}

func newTestLedger(store *memory.Store) *Ledger {
	return newTestLedgerWith(store, store)
}

func change(productID, locationID string, qty int64) StockChange {
	return StockChange{BusinessID: testBusiness, ProductID: productID, LocationID: locationID, Quantity: qty}
}

func quantityAt(t *testing.T, l *Ledger, productID, locationID string) int64 {
	t.Helper()
	list, err := l.GetForProduct(context.Background(), testBusiness, productID)
	require.NoError(t, err)
	for _, e := range list {
		if e.LocationID == locationID {
			return e.Quantity
		}
	}
	return 0
}

func history(t *testing.T, l *Ledger, productID string) []*entity.StockMovement {
	t.Helper()
	list, err := l.History(context.Background(), testBusiness, productID)
	require.NoError(t, err)
	return list
}

func TestLedger_IncreaseCreatesRowAndMovement(t *testing.T) {
	l := newTestLedger(newTestStore())
	in := change("p1", "L1", 7)
	in.SupplierID, in.BatchNumber = "sup-1", "lote-9"

	entry, err := l.Increase(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.Quantity)

	moves := history(t, l, "p1")
	require.Len(t, moves, 1)
	assert.Equal(t, int64(7), moves[0].ChangeAmount)
	assert.Equal(t, entity.MovementTypeIncrease, moves[0].Type)
	assert.Equal(t, "sup-1", moves[0].SupplierID)
	assert.Equal(t, "lote-9", moves[0].BatchNumber)
	assert.Equal(t, testBusiness, moves[0].BusinessID)
}

func TestLedger_RejectsNonPositiveQuantity(t *testing.T) {
	l := newTestLedger(newTestStore())
	ctx := context.Background()

	_, err := l.Increase(ctx, change("p1", "L1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = l.Decrease(ctx, change("p1", "L1", -2))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	err = l.Move(ctx, MoveRequest{BusinessID: testBusiness, ProductID: "p1", FromLocationID: "L1", ToLocationID: "L2", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestLedger_DecreaseNeverGoesNegative(t *testing.T) {
	store := newTestStore()
	store.SetStock("p1", "L1", 3)
	l := newTestLedger(store)
	ctx := context.Background()

	_, err := l.Decrease(ctx, change("p1", "L1", 4))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), quantityAt(t, l, "p1", "L1"))
	assert.Empty(t, history(t, l, "p1"))

	entry, err := l.Decrease(ctx, change("p1", "L1", 3))
	require.NoError(t, err)
	assert.Equal(t, int64(0), entry.Quantity)
}

func TestLedger_DecreaseUnknownRow(t *testing.T) {
	l := newTestLedger(newTestStore())
	_, err := l.Decrease(context.Background(), change("p1", "L1", 1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestLedger_ConcurrentDecreases(t *testing.T) {
	store := newTestStore()
	store.SetStock("p1", "L1", 5)
	l := newTestLedger(store)

	var wg sync.WaitGroup
	var ok, insufficient int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Decrease(context.Background(), change("p1", "L1", 3))
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt32(&insufficient, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(1), insufficient)
	assert.Equal(t, int64(2), quantityAt(t, l, "p1", "L1"))
}

func TestLedger_MoveBetweenLocations(t *testing.T) {
	store := newTestStore()
	store.SetStock("p1", "L1", 10)
	l := newTestLedger(store)

	require.NoError(t, l.Move(context.Background(), MoveRequest{BusinessID: testBusiness, ProductID: "p1", FromLocationID: "L1", ToLocationID: "L2", Quantity: 4, UserID: "u1"}))
	assert.Equal(t, int64(6), quantityAt(t, l, "p1", "L1"))
	assert.Equal(t, int64(4), quantityAt(t, l, "p1", "L2"))

	moves := history(t, l, "p1")
	require.Len(t, moves, 2)
	assert.Equal(t, moves[0].TransactionID, moves[1].TransactionID)
	var sum int64
	types := map[string]bool{}
	for _, m := range moves {
		sum += m.ChangeAmount
		types[m.Type] = true
	}
	assert.Zero(t, sum)
	assert.True(t, types[entity.MovementTypeMoveOut])
	assert.True(t, types[entity.MovementTypeMoveIn])
}

func TestLedger_MoveSameLocation(t *testing.T) {
	store := newTestStore()
	store.SetStock("p1", "L1", 10)
	l := newTestLedger(store)

	err := l.Move(context.Background(), MoveRequest{BusinessID: testBusiness, ProductID: "p1", FromLocationID: "L1", ToLocationID: "L1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidLocations)
	assert.Equal(t, int64(10), quantityAt(t, l, "p1", "L1"))
}

// Escenario: mover 5 con 3 en origen falla sin tocar nada.
func TestLedger_MoveInsufficient(t *testing.T) {
	store := newTestStore()
	store.SetStock("p1", "L1", 3)
	l := newTestLedger(store)

	err := l.Move(context.Background(), MoveRequest{BusinessID: testBusiness, ProductID: "p1", FromLocationID: "L1", ToLocationID: "L2", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), quantityAt(t, l, "p1", "L1"))
	assert.Equal(t, int64(0), quantityAt(t, l, "p1", "L2"))
	assert.Empty(t, history(t, l, "p1"))
}

type failingMovements struct {
	repository.StockMovementRepository
	calls     int
	failAfter int
}

func (f *failingMovements) Create(ctx context.Context, m *entity.StockMovement) error {
	f.calls++
	if f.calls > f.failAfter {
		return errors.New("disk full")
	}
	return f.StockMovementRepository.Create(ctx, m)
}

// faultyRunner inyecta una falla en la escritura del segundo movimiento del traslado.
type faultyRunner struct {
	store *memory.Store
}

func (r faultyRunner) Run(ctx context.Context, fn func(repository.StockRepository, repository.StockMovementRepository, repository.PendingDecrementRepository) error) error {
	return r.store.Run(ctx, func(s repository.StockRepository, m repository.StockMovementRepository, p repository.PendingDecrementRepository) error {
		return fn(s, &failingMovements{StockMovementRepository: m, failAfter: 1}, p)
	})
}

func TestLedger_MoveRollsBackOnFailure(t *testing.T) {
	store := newTestStore()
	store.SetStock("p1", "L1", 10)
	l := newTestLedgerWith(store, faultyRunner{store: store})

	err := l.Move(context.Background(), MoveRequest{BusinessID: testBusiness, ProductID: "p1", FromLocationID: "L1", ToLocationID: "L2", Quantity: 4})
	require.Error(t, err)
	assert.Equal(t, int64(10), quantityAt(t, l, "p1", "L1"))
	assert.Equal(t, int64(0), quantityAt(t, l, "p1", "L2"))
	assert.Empty(t, history(t, l, "p1"))
}

func TestLedger_GetForProductWithoutRows(t *testing.T) {
	l := newTestLedger(newTestStore())
	list, err := l.GetForProduct(context.Background(), testBusiness, "p1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = l.GetForProduct(context.Background(), testBusiness, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_HistoryNewestFirst(t *testing.T) {
	l := newTestLedger(newTestStore())
	ctx := context.Background()

	_, err := l.Increase(ctx, change("p1", "L1", 5))
	require.NoError(t, err)
	sale := change("p1", "L1", 2)
	sale.Type, sale.ReferenceID = entity.MovementTypeSale, "sale-1"
	_, err = l.Decrease(ctx, sale)
	require.NoError(t, err)

	moves := history(t, l, "p1")
	require.Len(t, moves, 2)
	assert.Equal(t, entity.MovementTypeSale, moves[0].Type)
	assert.Equal(t, "sale-1", moves[0].ReferenceID)
	assert.Equal(t, int64(-2), moves[0].ChangeAmount)
}

func TestLedger_OtherBusinessCannotTouchStock(t *testing.T) {
	store := newTestStore()
	store.SetStock("p1", "L1", 20)
	store.SetStock("p2", "L9", 8)
	l := newTestLedger(store)
	ctx := context.Background()

	foreign := StockChange{BusinessID: "b2", ProductID: "p1", LocationID: "L1", Quantity: 20}
	_, err := l.Decrease(ctx, foreign)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = l.Increase(ctx, foreign)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = l.Move(ctx, MoveRequest{BusinessID: "b2", ProductID: "p1", FromLocationID: "L1", ToLocationID: "L2", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = l.GetForProduct(ctx, "b2", "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = l.History(ctx, "b2", "p1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = l.ListForLocation(ctx, "b2", "L1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// producto propio en ubicación ajena
	_, err = l.Increase(ctx, change("p1", "L9", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = l.Move(ctx, MoveRequest{BusinessID: testBusiness, ProductID: "p1", FromLocationID: "L1", ToLocationID: "L9", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(20), quantityAt(t, l, "p1", "L1"))
	assert.Empty(t, history(t, l, "p1"))
	rows, err := l.ListForLocation(ctx, "b2", "L9")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(8), rows[0].Quantity)
}
