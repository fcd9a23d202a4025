package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pos/internal/application/catalog"
	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/pkg/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewSessionStore(client, 30*time.Minute)
	ctx := context.Background()

	sess := &pos.Session{
		ID:         "s1",
		BusinessID: "b1",
		UserID:     "u1",
		LocationID: "L1",
		Cart: pos.Cart{Lines: []pos.LineItem{
			{CatalogEntryID: "p1", Name: "Café", UnitPrice: decimal.NewFromInt(18000), Quantity: 2, IsTracked: true},
		}},
		Stock:          pos.StockSnapshot{"p1": 20},
		CheckoutSaleID: "sale-1",
	}
	require.NoError(t, store.Save(ctx, sess))
	assert.Equal(t, 30*time.Minute, mr.TTL(sessionPrefix+"s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.BusinessID)
	assert.Equal(t, "sale-1", got.CheckoutSaleID)
	assert.Equal(t, int64(20), got.Stock["p1"])
	require.Len(t, got.Cart.Lines, 1)
	assert.True(t, got.Cart.Lines[0].UnitPrice.Equal(decimal.NewFromInt(18000)))

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Expires(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewSessionStore(client, time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &pos.Session{ID: "s1"}))

	// cada Save renueva la expiración
	mr.FastForward(50 * time.Second)
	require.NoError(t, store.Save(ctx, &pos.Session{ID: "s1"}))
	mr.FastForward(50 * time.Second)
	_, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_CorruptPayload(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewSessionStore(client, time.Minute)
	require.NoError(t, mr.Set(sessionPrefix+"s1", "{no es json"))

	_, err := store.Get(context.Background(), "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotCache_MissSetDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewSnapshotCache(client, 10*time.Minute)
	ctx := context.Background()

	snap, err := c.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, c.Set(ctx, nil))
	assert.False(t, mr.Exists(snapshotPrefix+"b1"))

	require.NoError(t, c.Set(ctx, &catalog.Snapshot{
		BusinessID:       "b1",
		Entries:          []*entity.CatalogEntry{{ID: "p1", Name: "Café", UnitPrice: decimal.NewFromInt(18000), IsTrackedStock: true}},
		TrackingDegraded: true,
	}))
	assert.Equal(t, 10*time.Minute, mr.TTL(snapshotPrefix+"b1"))

	snap, err = c.Get(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.TrackingDegraded)
	entry, ok := snap.Find("p1")
	require.True(t, ok)
	assert.True(t, entry.IsTrackedStock)

	require.NoError(t, c.Delete(ctx, "b1"))
	snap, err = c.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestLocker_BusyUntilReleased(t *testing.T) {
	_, client := newTestRedis(t)
	l := NewLocker(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "checkout:s1")
	require.NoError(t, err)

	_, err = l.Lock(ctx, "checkout:s1")
	assert.ErrorIs(t, err, domain.ErrBusy)

	other, err := l.Lock(ctx, "checkout:s2")
	require.NoError(t, err)
	other()

	unlock()
	unlock, err = l.Lock(ctx, "checkout:s1")
	require.NoError(t, err)
	unlock()
}

func TestLocker_ExpiresAfterTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewLocker(client, time.Second, zerolog.Nop())
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "checkout:s1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	again, err := l.Lock(ctx, "checkout:s1")
	require.NoError(t, err)
	// liberar un lock vencido no toca el nuevo dueño
	unlock()
	_, err = l.Lock(ctx, "checkout:s1")
	assert.ErrorIs(t, err, domain.ErrBusy)
	again()
}

func TestLocker_RedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewLocker(client, time.Minute, zerolog.Nop())
	mr.Close()

	_, err := l.Lock(context.Background(), "checkout:s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBusy)
}
