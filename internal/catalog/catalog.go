package catalog

import (
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// Catalog is the ordered collection of items for the active session.
// Each scan replaces the full set; the order is stable within a session.
type Catalog struct {
	items []types.Item
	byID  map[string]int
}

func New() *Catalog {
	return &Catalog{byID: make(map[string]int)}
}

// Replace swaps in a freshly scanned item set, discarding the previous one.
func (c *Catalog) Replace(items []types.Item) {
	c.items = items
	c.byID = make(map[string]int, len(items))
	for i, item := range items {
		c.byID[item.ID] = i
	}
}

// Items returns the items in scan order. Callers must not mutate the slice.
func (c *Catalog) Items() []types.Item {
	return c.items
}

// Len returns the number of items in the active session.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Get looks an item up by id.
func (c *Catalog) Get(id string) (types.Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Item{}, false
	}
	return c.items[i], true
}

// Has reports whether an item with the given id exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Clear empties the catalog.
func (c *Catalog) Clear() {
	c.items = nil
	c.byID = make(map[string]int)
}

// TotalSize sums the raw file sizes of all items.
func (c *Catalog) TotalSize() int64 {
	var total int64
	for _, item := range c.items {
		total += item.SizeBytes
	}
	return total
}
