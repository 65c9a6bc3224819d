package realtime

import (
	"context"
	"sync"
	"time"

	"storefront/models"

	"go.uber.org/zap"
)

// SnapshotFunc loads the full current catalog snapshot.
type SnapshotFunc func(ctx context.Context) ([]*models.Product, error)

// Hub fans the active-catalog snapshot out to subscribers. Every delivery is
// the complete current snapshot; consumers replace their view rather than
// patching it. Each subscriber owns a scoped handle and releases it with
// Unsubscribe when torn down.
type Hub struct {
	load SnapshotFunc

	mu     sync.Mutex
	nextID int
	subs   map[int]chan []*models.Product
	closed bool
}

// Subscription is a scoped handle on the snapshot stream.
type Subscription struct {
	C           <-chan []*models.Product
	unsubscribe func()
}

// Unsubscribe releases the handle. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.unsubscribe()
}

func NewHub(load SnapshotFunc) *Hub {
	return &Hub{load: load, subs: make(map[int]chan []*models.Product)}
}

// Subscribe registers a consumer and queues the current snapshot as its
// first delivery.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan []*models.Product, 1)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	go h.refresh()

	var once sync.Once
	return &Subscription{
		C: ch,
		unsubscribe: func() {
			once.Do(func() {
				h.mu.Lock()
				delete(h.subs, id)
				h.mu.Unlock()
			})
		},
	}
}

// ProductsChanged implements the services change-notifier contract: the
// snapshot is reloaded and broadcast without blocking the mutation path.
func (h *Hub) ProductsChanged() {
	go h.refresh()
}

// Close drops all subscribers. Their channels are closed so SSE streams end.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}

func (h *Hub) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshot, err := h.load(ctx)
	if err != nil {
		zap.L().Warn("Failed to load catalog snapshot", zap.Error(err))
		return
	}
	if snapshot == nil {
		snapshot = []*models.Product{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		// Each channel buffers exactly one snapshot; a stale queued
		// delivery is replaced by the newer one.
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
