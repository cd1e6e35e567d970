package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	expiresAt time.Time // zero means no expiry
	value     V
	key       string
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// evicted is a value that left the cache and still has to be reported.
type evicted[V any] struct {
	key   string
	value V
}

// Memory is an in-process cache with TTL expiry and optional LRU capping.
// The most recently used entries sit at the front of the list.
type Memory[V any] struct {
	items  map[string]*list.Element
	order  *list.List
	opts   memoryOptions[V]
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates an in-memory cache.
//
//	widgets := cache.NewMemory(
//	    cache.WithDefaultTTL[*Widget](30*time.Minute),
//	    cache.WithEvictCallback(func(_ string, w *Widget) { w.Close() }),
//	)
//	defer widgets.Close()
func NewMemory[V any](opts ...MemoryOption[V]) *Memory[V] {
	o := memoryOptions[V]{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get marks the entry as recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V

	m.mu.Lock()
	elem, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		return zero, ErrNotFound
	}

	e := elem.Value.(*entry[V])
	if e.expired(time.Now()) {
		gone := m.remove(elem)
		m.mu.Unlock()
		m.report(gone)
		return zero, ErrNotFound
	}

	m.order.MoveToFront(elem)
	m.mu.Unlock()

	return e.value, nil
}

// Set stores value under key. A replaced value is reported to the evict callback.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	var gone []evicted[V]

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[V])
		gone = append(gone, evicted[V]{key: key, value: e.value})
		e.value = value
		e.expiresAt = expiresAt
		m.order.MoveToFront(elem)
		m.mu.Unlock()
		m.report(gone)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if back := m.order.Back(); back != nil {
			gone = append(gone, m.remove(back)...)
		}
	}

	m.items[key] = m.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	m.mu.Unlock()
	m.report(gone)

	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	var gone []evicted[V]
	if elem, ok := m.items[key]; ok {
		gone = m.remove(elem)
	}
	m.mu.Unlock()
	m.report(gone)

	return nil
}

// Len returns the number of stored entries, expired ones included
// until the janitor or a lookup drops them.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor and evicts every entry. Close is idempotent.
func (m *Memory[V]) Close() error {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)

	gone := make([]evicted[V], 0, len(m.items))
	for elem := m.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry[V])
		gone = append(gone, evicted[V]{key: e.key, value: e.value})
	}
	m.items = make(map[string]*list.Element)
	m.order.Init()
	m.mu.Unlock()

	m.report(gone)
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.dropExpired()
		}
	}
}

func (m *Memory[V]) dropExpired() {
	m.mu.Lock()
	now := time.Now()
	var gone []evicted[V]
	for elem := m.order.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry[V]).expired(now) {
			gone = append(gone, m.remove(elem)...)
		}
		elem = prev
	}
	m.mu.Unlock()

	m.report(gone)
}

// remove unlinks elem. Caller must hold the mutex.
func (m *Memory[V]) remove(elem *list.Element) []evicted[V] {
	m.order.Remove(elem)
	e := elem.Value.(*entry[V])
	delete(m.items, e.key)
	return []evicted[V]{{key: e.key, value: e.value}}
}

func (m *Memory[V]) report(gone []evicted[V]) {
	if m.opts.onEvict == nil {
		return
	}
	for _, g := range gone {
		m.opts.onEvict(g.key, g.value)
	}
}

var _ Cache[any] = (*Memory[any])(nil)
