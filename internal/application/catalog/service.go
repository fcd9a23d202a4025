package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

// Service construye el snapshot del catálogo de un negocio.
type Service struct {
	repo   repository.CatalogRepository
	cache  SnapshotCache
	logger zerolog.Logger
	now    func() time.Time
}

// NewService construye el servicio. cache nil equivale a NoopCache.
func NewService(repo repository.CatalogRepository, cache SnapshotCache, logger zerolog.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}
}

// Snapshot devuelve el snapshot del negocio desde la caché o lo carga de la fuente.
// Un fallo de la caché solo se registra. Los snapshots degradados no se guardan en caché.
func (s *Service) Snapshot(ctx context.Context, businessID string) (*Snapshot, error) {
	cached, err := s.cache.Get(ctx, businessID)
	if err != nil {
		s.logger.Warn().Err(err).Str("business_id", businessID).Msg("catalog cache read failed")
	}
	if cached != nil {
		return cached, nil
	}
	snap, err := s.Load(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if snap.TrackingDegraded {
		return snap, nil
	}
	if err := s.cache.Set(ctx, snap); err != nil {
		s.logger.Warn().Err(err).Str("business_id", businessID).Msg("catalog cache write failed")
	}
	return snap, nil
}

// Load lee productos, servicios y grupos en paralelo y normaliza el resultado.
// Si los grupos fallan se usa FailClosedTracking; si fallan productos o servicios, error.
func (s *Service) Load(ctx context.Context, businessID string) (*Snapshot, error) {
	var (
		products  []*entity.Product
		services  []*entity.Service
		groups    []*entity.CategoryGroup
		groupsErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.repo.ListProducts(gctx, businessID)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		services, err = s.repo.ListServices(gctx, businessID)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		groups, groupsErr = s.repo.ListCategoryGroups(gctx, businessID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cfg := NewTrackingConfig(groups)
	if groupsErr != nil {
		s.logger.Warn().Err(groupsErr).Str("business_id", businessID).Msg("category groups unavailable, tracking every product")
		cfg = FailClosedTracking()
	}

	entries := make([]*entity.CatalogEntry, 0, len(products)+len(services))
	for _, p := range products {
		if e := fromProduct(p, cfg); e != nil {
			entries = append(entries, e)
		}
	}
	for _, svc := range services {
		if e := fromService(svc); e != nil {
			entries = append(entries, e)
		}
	}
	return &Snapshot{
		BusinessID:       businessID,
		Entries:          entries,
		TrackingDegraded: cfg.Degraded(),
		LoadedAt:         s.now(),
	}, nil
}

// Invalidate descarta el snapshot en caché del negocio.
func (s *Service) Invalidate(ctx context.Context, businessID string) error {
	return s.cache.Delete(ctx, businessID)
}
