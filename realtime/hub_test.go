package realtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"storefront/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(titles ...string) []*models.Product {
	out := make([]*models.Product, 0, len(titles))
	for _, title := range titles {
		out = append(out, &models.Product{ID: uuid.New(), Title: title, IsActive: true})
	}
	return out
}

func receive(t *testing.T, c <-chan []*models.Product) []*models.Product {
	t.Helper()
	select {
	case snapshot, ok := <-c:
		require.True(t, ok, "channel closed before delivery")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	hub := NewHub(func(ctx context.Context) ([]*models.Product, error) {
		return snapshotOf("Peony bouquet"), nil
	})
	defer hub.Close()

	sub := hub.Subscribe()
	defer sub.Unsubscribe()

	snapshot := receive(t, sub.C)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Peony bouquet", snapshot[0].Title)
}

func TestProductsChangedBroadcastsFreshSnapshot(t *testing.T) {
	var version atomic.Int32
	hub := NewHub(func(ctx context.Context) ([]*models.Product, error) {
		if version.Load() == 0 {
			return snapshotOf("before"), nil
		}
		return snapshotOf("after", "another"), nil
	})
	defer hub.Close()

	sub := hub.Subscribe()
	defer sub.Unsubscribe()
	receive(t, sub.C)

	version.Store(1)
	hub.ProductsChanged()

	snapshot := receive(t, sub.C)
	require.Len(t, snapshot, 2)
	assert.Equal(t, "after", snapshot[0].Title)
}

func TestStaleQueuedSnapshotIsReplaced(t *testing.T) {
	var version atomic.Int32
	hub := NewHub(func(ctx context.Context) ([]*models.Product, error) {
		n := int(version.Load())
		return snapshotOf(make([]string, n+1)...), nil
	})
	defer hub.Close()

	sub := hub.Subscribe()
	defer sub.Unsubscribe()

	// Do not drain; let deliveries pile up so the buffered slot is contested.
	deadline := time.Now().Add(2 * time.Second)
	for {
		version.Add(1)
		hub.ProductsChanged()
		time.Sleep(10 * time.Millisecond)
		if len(sub.C) == 1 || time.Now().After(deadline) {
			break
		}
	}

	first := receive(t, sub.C)
	assert.GreaterOrEqual(t, len(first), 1)

	// After draining, a new change still comes through. Older in-flight
	// refreshes may land first; the newest snapshot wins eventually.
	version.Add(1)
	hub.ProductsChanged()
	for {
		second := receive(t, sub.C)
		if len(second) > len(first) {
			break
		}
	}
}

func TestUnsubscribeStopsDeliveries(t *testing.T) {
	hub := NewHub(func(ctx context.Context) ([]*models.Product, error) {
		return snapshotOf("only"), nil
	})
	defer hub.Close()

	sub := hub.Subscribe()
	receive(t, sub.C)
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	hub.ProductsChanged()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sub.C)
}

func TestCloseEndsSubscriberChannels(t *testing.T) {
	hub := NewHub(func(ctx context.Context) ([]*models.Product, error) {
		return snapshotOf("x"), nil
	})

	sub := hub.Subscribe()
	receive(t, sub.C)
	hub.Close()
	hub.Close() // idempotent

	select {
	case _, ok := <-sub.C:
		assert.False(t, ok, "channel closes on hub shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestLoadFailureSkipsBroadcast(t *testing.T) {
	var fail atomic.Bool
	hub := NewHub(func(ctx context.Context) ([]*models.Product, error) {
		if fail.Load() {
			return nil, errors.New("scan failed")
		}
		return snapshotOf("ok"), nil
	})
	defer hub.Close()

	sub := hub.Subscribe()
	defer sub.Unsubscribe()
	receive(t, sub.C)

	fail.Store(true)
	hub.ProductsChanged()
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sub.C, "failed reload delivers nothing")
}
