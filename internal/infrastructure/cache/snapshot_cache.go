package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-pos/internal/application/catalog"
)

var _ catalog.SnapshotCache = (*SnapshotCache)(nil)

const snapshotPrefix = "pos:catalog:"

// SnapshotCache guarda el catálogo normalizado por negocio.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache construye la caché.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get devuelve (nil, nil) en un miss.
func (c *SnapshotCache) Get(ctx context.Context, businessID string) (*catalog.Snapshot, error) {
	val, err := c.client.Get(ctx, snapshotPrefix+businessID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap catalog.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Set guarda el snapshot.
func (c *SnapshotCache) Set(ctx context.Context, snap *catalog.Snapshot) error {
	if snap == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotPrefix+snap.BusinessID, payload, c.ttl).Err()
}

// Delete invalida el snapshot del negocio.
func (c *SnapshotCache) Delete(ctx context.Context, businessID string) error {
	return c.client.Del(ctx, snapshotPrefix+businessID).Err()
}
