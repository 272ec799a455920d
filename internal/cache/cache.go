// Package cache holds locally materialized copies of remote collections.
//
// Caches are owned by the UI event loop: every mutation happens while
// handling a message, never from a command goroutine, so there is no
// locking. Display order is the server's response order; nothing here
// re-sorts. Overlapping refreshes on the same scope are resolved with
// per-scope request tokens so only the latest issued request can apply.
package cache

// Token identifies one refresh request against one scope.
type Token struct {
	Scope string
	Seq   uint64
}

// Cache is an ordered, id-keyed copy of one remote collection.
type Cache[T any] struct {
	keyFn func(T) string

	items []T
	index map[string]int

	scope string
	seq   map[string]uint64
}

// New creates a cache whose items are keyed by keyFn.
func New[T any](keyFn func(T) string) *Cache[T] {
	return &Cache[T]{
		keyFn: keyFn,
		index: make(map[string]int),
		seq:   make(map[string]uint64),
	}
}

// Begin starts a refresh for scope and returns the token the response must
// present to Apply. Issuing a newer token for the same scope, or beginning a
// different scope, invalidates every earlier one.
func (c *Cache[T]) Begin(scope string) Token {
	c.scope = scope
	c.seq[scope]++
	return Token{Scope: scope, Seq: c.seq[scope]}
}

// Apply replaces the cache contents with items, preserving their order. It
// reports whether the response was applied: a stale token, either an older
// request on the same scope or any request for a scope that is no longer
// current, is dropped.
func (c *Cache[T]) Apply(tok Token, items []T) bool {
	if tok.Scope != c.scope || tok.Seq != c.seq[tok.Scope] {
		return false
	}

	c.items = items
	c.reindex()
	return true
}

// Scope returns the scope of the most recent Begin.
func (c *Cache[T]) Scope() string {
	return c.scope
}

// Items returns the cached items in display order. The slice is shared;
// callers must not mutate it.
func (c *Cache[T]) Items() []T {
	return c.items
}

// Len returns the number of cached items.
func (c *Cache[T]) Len() int {
	return len(c.items)
}

// Get returns the cached item with the given id.
func (c *Cache[T]) Get(id string) (T, bool) {
	if i, ok := c.index[id]; ok {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Upsert inserts or replaces one item without a round trip, used right
// after a successful create or update. New items go at the end, matching
// where the server would list them.
func (c *Cache[T]) Upsert(item T) {
	id := c.keyFn(item)
	if i, ok := c.index[id]; ok {
		c.items[i] = item
		return
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, item)
}

// Patch mutates one cached item in place. It reports whether the item was
// present.
func (c *Cache[T]) Patch(id string, mutate func(*T)) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	mutate(&c.items[i])
	return true
}

// Remove deletes one item, preserving the order of the rest.
func (c *Cache[T]) Remove(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindex()
	return true
}

// Clear empties the cache. Refresh tokens survive so in-flight responses
// from before the clear still cannot apply against a later scope.
func (c *Cache[T]) Clear() {
	c.items = nil
	c.scope = ""
	c.reindex()
}

func (c *Cache[T]) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i, item := range c.items {
		c.index[c.keyFn(item)] = i
	}
}
