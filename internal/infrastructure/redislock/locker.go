// Package redislock serializa las acciones del flujo de recepción entre
// réplicas de la API usando locks distribuidos sobre Redis.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	apprecv "github.com/jhoicas/Recepciones-api/internal/application/receiving"
	"github.com/jhoicas/Recepciones-api/internal/domain"
)

var _ apprecv.DocumentLocker = (*Locker)(nil)

// Locker implementa receiving.DocumentLocker sobre bsm/redislock.
type Locker struct {
	client *redislock.Client
}

// New construye el locker a partir de un cliente Redis.
func New(rdb *redis.Client) *Locker {
	return &Locker{client: redislock.New(rdb)}
}

// Lock intenta obtener el lock sin reintentos: si otro operador lo tiene,
// la acción se rechaza de inmediato.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (apprecv.Unlocker, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, domain.ErrDocumentLocked
		}
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}
	return &held{lock: lock}, nil
}

type held struct {
	lock *redislock.Lock
}

// Release libera el lock. Si ya expiró por TTL no es un error para el caller.
func (h *held) Release(ctx context.Context) error {
	if err := h.lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return fmt.Errorf("liberar lock: %w", err)
	}
	return nil
}
