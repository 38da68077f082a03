package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// productLocks serializes movement application per product. Each product ID
// maps to a one-slot channel semaphore; acquisition honors the caller's
// context so waiters are bounded by the configured lock timeout. Movements
// against distinct products never block one another.
//
// Lock entries are never removed: the map grows with the number of distinct
// products touched by this process, which is bounded by catalog size.
type productLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]chan struct{}
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[uuid.UUID]chan struct{})}
}

func (pl *productLocks) lockFor(id uuid.UUID) chan struct{} {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	ch, ok := pl.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		pl.locks[id] = ch
	}
	return ch
}

// Acquire blocks until the product's slot is free or ctx expires, returning
// ErrLockTimeout in the latter case.
func (pl *productLocks) Acquire(ctx context.Context, id uuid.UUID) error {
	select {
	case pl.lockFor(id) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrLockTimeout
	}
}

// Release frees the product's slot. Must only be called after a successful
// Acquire for the same ID.
func (pl *productLocks) Release(id uuid.UUID) {
	<-pl.lockFor(id)
}
