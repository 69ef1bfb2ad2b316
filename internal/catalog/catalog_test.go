package catalog

import (
	"testing"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

func TestCatalog_ReplaceAndLookup(t *testing.T) {
	c := New()
	c.Replace([]types.Item{
		{ID: "a", SizeBytes: 100},
		{ID: "b", SizeBytes: 250},
	})

	if c.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", c.Len())
	}
	if !c.Has("a") || !c.Has("b") {
		t.Fatal("expected both items present")
	}
	if c.Has("c") {
		t.Fatal("unexpected item c")
	}

	item, ok := c.Get("b")
	if !ok || item.SizeBytes != 250 {
		t.Fatalf("unexpected lookup result: %+v ok=%v", item, ok)
	}

	if c.TotalSize() != 350 {
		t.Fatalf("expected total size 350, got %d", c.TotalSize())
	}
}

func TestCatalog_ClearEmptiesEverything(t *testing.T) {
	c := New()
	c.Replace([]types.Item{{ID: "a"}})
	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d items", c.Len())
	}
	if c.Has("a") {
		t.Fatal("expected item a gone after clear")
	}
}

func TestCatalog_ItemsPreserveInsertionOrder(t *testing.T) {
	c := New()
	c.Replace([]types.Item{{ID: "z"}, {ID: "a"}, {ID: "m"}})

	items := c.Items()
	if items[0].ID != "z" || items[1].ID != "a" || items[2].ID != "m" {
		t.Fatalf("unexpected order: %s, %s, %s", items[0].ID, items[1].ID, items[2].ID)
	}
}
