package classify

import (
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// Index maps folder keys to their member items under the current policy.
// Key order follows first insertion, so a catalog in scan order yields a
// reproducible index ordering.
type Index struct {
	keys   []FolderKey
	groups map[FolderKey][]types.Item
}

func NewIndex() *Index {
	return &Index{groups: make(map[FolderKey][]types.Item)}
}

// Add appends an item to its folder key's member list.
func (ix *Index) Add(key FolderKey, item types.Item) {
	if _, ok := ix.groups[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.groups[key] = append(ix.groups[key], item)
}

// Keys returns the folder keys in insertion order.
func (ix *Index) Keys() []FolderKey {
	return ix.keys
}

// Items returns the member items of a folder key in insertion order.
func (ix *Index) Items(key FolderKey) []types.Item {
	return ix.groups[key]
}

// Has reports whether the key exists in the index.
func (ix *Index) Has(key FolderKey) bool {
	_, ok := ix.groups[key]
	return ok
}

// FolderCount returns the number of distinct folder keys.
func (ix *Index) FolderCount() int {
	return len(ix.keys)
}

// ItemCount returns the total number of items across all keys.
func (ix *Index) ItemCount() int {
	var n int
	for _, items := range ix.groups {
		n += len(items)
	}
	return n
}
