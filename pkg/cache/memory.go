package cache

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"time"
)

type memoryEntry struct {
	key     string
	value   []byte
	written time.Time
	expires time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Memory is a process-local LRU cache. When it holds capacity entries the
// least recently used one is evicted to make room; expired entries are dropped
// when read.
type Memory struct {
	capacity int
	items    map[string]*list.Element
	eviction *list.List
	mu       sync.Mutex
	now      func() time.Time
}

// NewMemory returns a Memory cache holding at most capacity entries.
func NewMemory(capacity int) (*Memory, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		now:      time.Now,
	}, nil
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.lookup(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

func (c *Memory) GetByFile(_ context.Context, key, path string) ([]byte, error) {
	e, ok := c.lookup(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if err := staleFor(e.written, path); err != nil {
		return nil, err
	}
	return e.value, nil
}

func (c *Memory) Timestamp(_ context.Context, key string) (time.Time, error) {
	e, ok := c.lookup(key)
	if !ok {
		return time.Time{}, ErrCacheMiss
	}
	return e.written, nil
}

func (c *Memory) Set(_ context.Context, key string, value []byte, exp time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := &memoryEntry{key: key, value: slices.Clone(value), written: now}
	if exp > 0 {
		entry.expires = now.Add(exp)
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.eviction.MoveToFront(elem)
		return nil
	}
	c.items[key] = c.eviction.PushFront(entry)
	if c.eviction.Len() > c.capacity {
		c.removeElement(c.eviction.Back())
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet read.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Clear removes every entry.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.eviction.Init()
}

// lookup returns a copy of the live entry for key and marks it recently used.
func (c *Memory) lookup(key string) (memoryEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return memoryEntry{}, false
	}
	entry := elem.Value.(*memoryEntry)
	if entry.expired(c.now()) {
		c.removeElement(elem)
		return memoryEntry{}, false
	}
	c.eviction.MoveToFront(elem)
	return *entry, true
}

// Must be called with lock held.
func (c *Memory) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	c.eviction.Remove(elem)
	delete(c.items, elem.Value.(*memoryEntry).key)
}
