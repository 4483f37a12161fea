// Package cache holds recently read or created orders in memory.
package cache

import (
	"container/list"
	"sync"

	"github.com/mrussa/storefront/internal/repo"
)

const DefaultCapacity = 10000

// OrdersCache keeps orders by id up to a fixed capacity, evicting the least
// recently used entry. Orders never change after creation, so entries are
// never stale; values are copied on the way in and out.
type OrdersCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	m        map[string]*list.Element
}

// New returns a cache holding at most capacity orders. A non-positive
// capacity selects DefaultCapacity.
func New(capacity int) *OrdersCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &OrdersCache{
		capacity: capacity,
		ll:       list.New(),
		m:        make(map[string]*list.Element, min(capacity, 256)),
	}
}

func (c *OrdersCache) Get(id string) (repo.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.m[id]
	if !ok {
		return repo.Order{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(repo.Order).Clone(), true
}

func (c *OrdersCache) Set(o repo.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(o)
}

// Warm loads orders, given newest first, and reports how many entries the
// cache now holds.
func (c *OrdersCache) Warm(orders []repo.Order) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(orders) - 1; i >= 0; i-- {
		c.setLocked(orders[i])
	}
	return c.ll.Len()
}

func (c *OrdersCache) setLocked(o repo.Order) {
	if el, ok := c.m[o.ID]; ok {
		el.Value = o.Clone()
		c.ll.MoveToFront(el)
		return
	}
	c.m[o.ID] = c.ll.PushFront(o.Clone())
	for c.ll.Len() > c.capacity {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.m, last.Value.(repo.Order).ID)
	}
}

// Reset drops every entry. Pair it with clearing the backing store.
func (c *OrdersCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	clear(c.m)
}

func (c *OrdersCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
