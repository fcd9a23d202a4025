package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/infrastructure/memory"
)

func seedCatalog() *memory.Store {
	s := memory.New()
	s.PutCategoryGroup(entity.CategoryGroup{BusinessID: "b1", Group: "Product", IsStockTracked: true})
	s.PutCategoryGroup(entity.CategoryGroup{BusinessID: "b1", Group: "service", IsStockTracked: false})
	s.PutProduct(entity.Product{ID: "p1", BusinessID: "b1", Name: "Café", Price: decimal.NewFromInt(10), UnitMeasure: "kg", CategoryGroup: " product "})
	s.PutProduct(entity.Product{ID: "p2", BusinessID: "b1", SKU: "BOL-01", Price: decimal.NewFromInt(1), CategoryGroup: "service"})
	s.PutProduct(entity.Product{ID: "p3", BusinessID: "b1", Name: "Servicio mal cargado", IsService: true})
	s.PutService(entity.Service{ID: "s1", BusinessID: "b1", Name: "Domicilio", Rate: decimal.NewFromInt(6), Category: "service"})
	s.SetStock("p1", "L1", 4)
	s.SetStock("p1", "L2", 6)
	return s
}

func TestLoad_NormalizesAndClassifies(t *testing.T) {
	svc := NewService(memory.NewCatalogRepository(seedCatalog()), nil, zerolog.Nop())

	snap, err := svc.Load(context.Background(), "b1")
	require.NoError(t, err)
	assert.False(t, snap.TrackingDegraded)
	require.Len(t, snap.Entries, 3)

	_, found := snap.Find("p3")
	assert.False(t, found, "products flagged as service are dropped")

	p1, ok := snap.Find("p1")
	require.True(t, ok)
	assert.True(t, p1.IsTrackedStock)
	assert.Equal(t, "product", p1.CategoryGroup)
	assert.Equal(t, "kg", p1.UnitOfMeasure)
	assert.Equal(t, int64(10), p1.CurrentStockHint)

	p2, ok := snap.Find("p2")
	require.True(t, ok)
	assert.False(t, p2.IsTrackedStock)
	assert.Equal(t, "BOL-01", p2.Name)
	assert.Equal(t, defaultProductUnit, p2.UnitOfMeasure)

	s1, ok := snap.Find("s1")
	require.True(t, ok)
	assert.True(t, s1.IsService)
	assert.False(t, s1.IsTrackedStock)
	assert.True(t, s1.UnitPrice.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, defaultServiceUnit, s1.UnitOfMeasure)
}

func TestLoad_FailClosedWhenGroupsUnavailable(t *testing.T) {
	store := seedCatalog()
	store.FailCategoryGroups(errors.New("timeout"))
	svc := NewService(memory.NewCatalogRepository(store), nil, zerolog.Nop())

	snap, err := svc.Load(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, snap.TrackingDegraded)
	for _, e := range snap.Entries {
		assert.Equal(t, !e.IsService, e.IsTrackedStock, e.ID)
	}
}

type mapCache struct {
	data map[string]*Snapshot
	sets int
}

func (c *mapCache) Get(_ context.Context, id string) (*Snapshot, error) { return c.data[id], nil }
func (c *mapCache) Set(_ context.Context, s *Snapshot) error {
	c.sets++
	c.data[s.BusinessID] = s
	return nil
}
func (c *mapCache) Delete(_ context.Context, id string) error {
	delete(c.data, id)
	return nil
}

func TestSnapshot_UsesCacheAndInvalidate(t *testing.T) {
	store := seedCatalog()
	cache := &mapCache{data: map[string]*Snapshot{}}
	svc := NewService(memory.NewCatalogRepository(store), cache, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Snapshot(ctx, "b1")
	require.NoError(t, err)
	store.PutService(entity.Service{ID: "s2", BusinessID: "b1", Name: "Nuevo"})

	second, err := svc.Snapshot(ctx, "b1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.sets)

	require.NoError(t, svc.Invalidate(ctx, "b1"))
	third, err := svc.Snapshot(ctx, "b1")
	require.NoError(t, err)
	_, ok := third.Find("s2")
	assert.True(t, ok)
}

func TestSnapshot_DegradedNotCached(t *testing.T) {
	store := seedCatalog()
	store.FailCategoryGroups(errors.New("down"))
	cache := &mapCache{data: map[string]*Snapshot{}}
	svc := NewService(memory.NewCatalogRepository(store), cache, zerolog.Nop())

	_, err := svc.Snapshot(context.Background(), "b1")
	require.NoError(t, err)
	assert.Zero(t, cache.sets)
}

func TestTrackingConfig(t *testing.T) {
	cfg := NewTrackingConfig([]*entity.CategoryGroup{{Group: "Product", IsStockTracked: true}, nil})
	assert.True(t, cfg.IsTracked(" PRODUCT", false))
	assert.False(t, cfg.IsTracked("product", true))
	assert.False(t, cfg.IsTracked("unknown", false))
	assert.False(t, cfg.Degraded())
}
