package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string
	Name string
}

func newRecordCache() *Cache[record] {
	return New(func(r record) string { return r.ID })
}

func TestApplyPreservesResponseOrder(t *testing.T) {
	c := newRecordCache()
	tok := c.Begin("p1")

	in := []record{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	require.True(t, c.Apply(tok, in))

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "b", items[2].ID)
}

func TestApplyDropsStaleResponses(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, c *Cache[record])
	}{
		{
			name: "older request on same scope",
			run: func(t *testing.T, c *Cache[record]) {
				first := c.Begin("p1")
				second := c.Begin("p1")

				require.True(t, c.Apply(second, []record{{ID: "new"}}))
				assert.False(t, c.Apply(first, []record{{ID: "old"}}))

				got, ok := c.Get("new")
				require.True(t, ok)
				assert.Equal(t, "new", got.ID)
				_, ok = c.Get("old")
				assert.False(t, ok)
			},
		},
		{
			name: "request for a scope no longer current",
			run: func(t *testing.T, c *Cache[record]) {
				old := c.Begin("p1")
				current := c.Begin("p2")

				assert.False(t, c.Apply(old, []record{{ID: "from-p1"}}))
				require.True(t, c.Apply(current, []record{{ID: "from-p2"}}))
				assert.Equal(t, 1, c.Len())
			},
		},
		{
			name: "response from before a clear",
			run: func(t *testing.T, c *Cache[record]) {
				tok := c.Begin("p1")
				c.Clear()

				assert.False(t, c.Apply(tok, []record{{ID: "stale"}}))
				assert.Equal(t, 0, c.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, newRecordCache())
		})
	}
}

func TestUpsert(t *testing.T) {
	c := newRecordCache()
	tok := c.Begin("p1")
	require.True(t, c.Apply(tok, []record{{ID: "a", Name: "one"}, {ID: "b", Name: "two"}}))

	// Replacing keeps the item's position.
	c.Upsert(record{ID: "a", Name: "edited"})
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "edited", items[0].Name)

	// New items land at the end.
	c.Upsert(record{ID: "c", Name: "three"})
	items = c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[2].ID)
}

func TestPatch(t *testing.T) {
	c := newRecordCache()
	tok := c.Begin("p1")
	require.True(t, c.Apply(tok, []record{{ID: "a", Name: "one"}}))

	assert.True(t, c.Patch("a", func(r *record) { r.Name = "patched" }))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "patched", got.Name)

	assert.False(t, c.Patch("missing", func(r *record) { r.Name = "nope" }))
}

func TestRemoveKeepsOrder(t *testing.T) {
	c := newRecordCache()
	tok := c.Begin("p1")
	require.True(t, c.Apply(tok, []record{{ID: "a"}, {ID: "b"}, {ID: "c"}}))

	assert.True(t, c.Remove("b"))
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "c", items[1].ID)

	assert.False(t, c.Remove("b"))
}

func TestClearEmptiesCache(t *testing.T) {
	c := newRecordCache()
	tok := c.Begin("p1")
	require.True(t, c.Apply(tok, []record{{ID: "a"}}))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Scope())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
