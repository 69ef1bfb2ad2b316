// Package exclude implements the advisory exclusion overlay: individually
// excluded items and excluded destination folder keys. The overlay never
// removes anything from the catalog or the folder index; it only defines
// the "included" predicate consumed by the copier, verifier, and report.
package exclude

import (
	"github.com/wjakew/fotofusion-desktop/internal/classify"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// WarnFunc receives advisory warnings (e.g., toggling an unknown folder).
type WarnFunc func(msg string)

type Model struct {
	excludedItems   map[string]bool
	excludedFolders map[classify.FolderKey]bool
	// itemFolder maps item id to its current folder key; rebuilt by
	// Reconcile after every index rebuild.
	itemFolder map[string]classify.FolderKey
	warn       WarnFunc
}

func New(warn WarnFunc) *Model {
	return &Model{
		excludedItems:   make(map[string]bool),
		excludedFolders: make(map[classify.FolderKey]bool),
		itemFolder:      make(map[string]classify.FolderKey),
		warn:            warn,
	}
}

// ToggleItem flips the individual exclusion of an item and returns the new
// excluded state. Toggling an id the catalog does not know is a defined
// no-op, mirroring ToggleFolder: it logs a warning and reports "not
// excluded", so the overlay never counts phantom ids.
func (m *Model) ToggleItem(id string, exists func(id string) bool) bool {
	if exists == nil || !exists(id) {
		if m.warn != nil {
			m.warn("toggle on unknown photo id: " + id)
		}
		return false
	}

	if m.excludedItems[id] {
		delete(m.excludedItems, id)
		return false
	}
	m.excludedItems[id] = true
	return true
}

// ToggleFolder flips the exclusion of a folder key and returns the new
// excluded state. Toggling a key that does not exist in the current index
// is a defined no-op: it logs a warning and reports "not excluded".
func (m *Model) ToggleFolder(key classify.FolderKey, index *classify.Index) bool {
	if index == nil || !index.Has(key) {
		if m.warn != nil {
			m.warn("toggle on unknown folder key: " + string(key))
		}
		return false
	}

	if m.excludedFolders[key] {
		delete(m.excludedFolders, key)
		return false
	}
	m.excludedFolders[key] = true
	return true
}

// IsItemExcluded reports whether the item is individually excluded.
func (m *Model) IsItemExcluded(id string) bool {
	return m.excludedItems[id]
}

// IsFolderExcluded reports whether the folder key is excluded.
func (m *Model) IsFolderExcluded(key classify.FolderKey) bool {
	return m.excludedFolders[key]
}

// IsIncluded applies the overlay: an item is included unless it is
// individually excluded or its current folder key is excluded.
func (m *Model) IsIncluded(item types.Item) bool {
	if m.excludedItems[item.ID] {
		return false
	}
	if key, ok := m.itemFolder[item.ID]; ok && m.excludedFolders[key] {
		return false
	}
	return true
}

// IncludedItems filters the given catalog items by the overlay.
func (m *Model) IncludedItems(items []types.Item) []types.Item {
	included := make([]types.Item, 0, len(items))
	for _, item := range items {
		if m.IsIncluded(item) {
			included = append(included, item)
		}
	}
	return included
}

// Stats derives the exclusion summary. Items excluded via folder count only
// when not already individually excluded, so nothing is double counted.
func (m *Model) Stats(items []types.Item, index *classify.Index) types.ExclusionStats {
	stats := types.ExclusionStats{
		Total:           len(items),
		ExcludedByPhoto: len(m.excludedItems),
		ExcludedFolders: len(m.excludedFolders),
	}

	if index != nil {
		for key := range m.excludedFolders {
			for _, item := range index.Items(key) {
				if !m.excludedItems[item.ID] {
					stats.ExcludedByFolder++
				}
			}
		}
	}

	stats.TotalExcluded = stats.ExcludedByPhoto + stats.ExcludedByFolder
	stats.Included = stats.Total - stats.TotalExcluded
	if stats.Included < 0 {
		stats.Included = 0
	}
	return stats
}

// Clear empties both exclusion sets.
func (m *Model) Clear() {
	m.excludedItems = make(map[string]bool)
	m.excludedFolders = make(map[classify.FolderKey]bool)
	m.itemFolder = make(map[string]classify.FolderKey)
}

// Reconcile prunes references to folder keys and item ids that no longer
// exist, preserving every still-valid entry, and rebuilds the item-to-folder
// mapping. It must be called after every folder index rebuild. Calling it
// twice in a row with the same inputs is a no-op the second time.
func (m *Model) Reconcile(index *classify.Index, itemExists func(id string) bool) {
	m.itemFolder = make(map[string]classify.FolderKey)
	if index != nil {
		for _, key := range index.Keys() {
			for _, item := range index.Items(key) {
				m.itemFolder[item.ID] = key
			}
		}
	}

	for key := range m.excludedFolders {
		if index == nil || !index.Has(key) {
			if m.warn != nil {
				m.warn("dropping excluded folder no longer in structure: " + string(key))
			}
			delete(m.excludedFolders, key)
		}
	}

	for id := range m.excludedItems {
		if itemExists == nil || !itemExists(id) {
			if m.warn != nil {
				m.warn("dropping excluded item no longer in catalog: " + id)
			}
			delete(m.excludedItems, id)
		}
	}
}

// ExcludedFolderKeys returns the excluded folder keys (unordered).
func (m *Model) ExcludedFolderKeys() []classify.FolderKey {
	keys := make([]classify.FolderKey, 0, len(m.excludedFolders))
	for key := range m.excludedFolders {
		keys = append(keys, key)
	}
	return keys
}

// ExcludedItemIDs returns the individually excluded item ids (unordered).
func (m *Model) ExcludedItemIDs() []string {
	ids := make([]string, 0, len(m.excludedItems))
	for id := range m.excludedItems {
		ids = append(ids, id)
	}
	return ids
}
