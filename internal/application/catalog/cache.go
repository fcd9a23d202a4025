package catalog

import "context"

// SnapshotCache guarda snapshots ya normalizados por negocio.
// Get devuelve (nil, nil) cuando no hay entrada.
type SnapshotCache interface {
	Get(ctx context.Context, businessID string) (*Snapshot, error)
	Set(ctx context.Context, snap *Snapshot) error
	Delete(ctx context.Context, businessID string) error
}

// NoopCache no guarda nada; cada sesión carga el catálogo de la fuente.
type NoopCache struct{}

// Get siempre devuelve un miss.
func (NoopCache) Get(context.Context, string) (*Snapshot, error) { return nil, nil }

// Set no hace nada.
func (NoopCache) Set(context.Context, *Snapshot) error { return nil }

// Delete no hace nada.
func (NoopCache) Delete(context.Context, string) error { return nil }
