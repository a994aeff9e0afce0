// Package memory provides in-process cart storage and view tracking, used
// when no Redis is configured.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/recent"
)

var (
	_ cart.Storage   = (*KV)(nil)
	_ recent.Tracker = (*Tracker)(nil)
)

// KV is a map-backed key-value store.
type KV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKV creates an empty KV.
func NewKV() *KV {
	return &KV{data: make(map[string]string)}
}

// Get implements cart.Storage.
func (kv *KV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

// Set implements cart.Storage.
func (kv *KV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

// Tracker keeps the most recent product ids in a bounded slice.
type Tracker struct {
	mu  sync.Mutex
	ids []int64
	max int
}

// NewTracker creates a Tracker holding at most max ids.
func NewTracker(max int) *Tracker {
	if max <= 0 {
		max = recent.DefaultMax
	}
	return &Tracker{max: max}
}

// IDs implements recent.Tracker.
func (t *Tracker) IDs(context.Context) ([]int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.ids), nil
}

// TrackView implements recent.Tracker.
func (t *Tracker) TrackView(_ context.Context, productID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := slices.DeleteFunc(t.ids, func(id int64) bool { return id == productID })
	ids = slices.Insert(ids, 0, productID)
	if len(ids) > t.max {
		ids = ids[:t.max]
	}
	t.ids = ids
	return nil
}

// Clear implements recent.Tracker.
func (t *Tracker) Clear(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = nil
	return nil
}
