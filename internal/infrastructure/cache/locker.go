package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain"
)

var _ pos.Locker = (*Locker)(nil)

// Locker exclusión distribuida entre instancias con redislock.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewLocker construye el locker. ttl acota cuánto puede durar un cobro con la clave tomada.
func NewLocker(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Locker {
	return &Locker{client: redislock.New(client), ttl: ttl, logger: logger}
}

// Lock intenta tomar la clave una vez; si otro la tiene devuelve domain.ErrBusy.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrBusy
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock: %w", err)
	}
	return func() {
		// Release usa un contexto propio: el de la petición puede estar cancelado.
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn().Err(err).Str("key", key).Msg("release lock")
		}
	}, nil
}
