package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-pos/internal/application/pos"
	"github.com/jhoicas/Inventario-pos/internal/domain"
)

var _ pos.SessionStore = (*SessionStore)(nil)

const sessionPrefix = "pos:session:"

// SessionStore guarda las sesiones de POS como JSON con expiración deslizante.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore construye el store.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Get lee la sesión o domain.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (*pos.Session, error) {
	val, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess pos.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save escribe la sesión y renueva la expiración.
func (s *SessionStore) Save(ctx context.Context, sess *pos.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionPrefix+sess.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete elimina la sesión.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionPrefix+id).Err()
}
