package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

func writePhotos(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestScan_PopulatesCatalogAndIndex(t *testing.T) {
	srcDir := t.TempDir()
	writePhotos(t, srcDir, "a.jpg", "b.jpg", "notes.txt")

	s := New(nil)
	items, err := s.Scan(srcDir, nil)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if s.Index().ItemCount() != 2 {
		t.Fatalf("expected 2 indexed items, got %d", s.Index().ItemCount())
	}
}

func TestScan_EmptySourceReturnsError(t *testing.T) {
	s := New(nil)
	if _, err := s.Scan("", nil); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestScan_DiscardsPreviousSessionState(t *testing.T) {
	firstDir := t.TempDir()
	writePhotos(t, firstDir, "old.jpg")
	secondDir := t.TempDir()
	writePhotos(t, secondDir, "new1.jpg", "new2.jpg")

	s := New(nil)
	items, err := s.Scan(firstDir, nil)
	if err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	s.ToggleItem(items[0].ID)

	if _, err := s.Scan(secondDir, nil); err != nil {
		t.Fatalf("second scan failed: %v", err)
	}

	if len(s.Items()) != 2 {
		t.Fatalf("expected the new catalog only, got %d items", len(s.Items()))
	}
	stats := s.ExclusionStats()
	if stats.TotalExcluded != 0 {
		t.Fatalf("expected exclusions reset by rescan, got %+v", stats)
	}
}

func TestToggleItem_UnknownIDIsNoop(t *testing.T) {
	srcDir := t.TempDir()
	writePhotos(t, srcDir, "a.jpg")

	s := New(nil)
	if _, err := s.Scan(srcDir, nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if s.ToggleItem("ghost") {
		t.Fatal("expected toggle on unknown id to report not excluded")
	}
	stats := s.ExclusionStats()
	if stats.ExcludedByPhoto != 0 || stats.TotalExcluded != 0 {
		t.Fatalf("phantom id must not inflate stats, got %+v", stats)
	}
	if len(s.IncludedItems()) != 1 {
		t.Fatal("catalog item must stay included")
	}
}

func TestSetSettings_RebuildPreservesSurvivingFolderExclusions(t *testing.T) {
	srcDir := t.TempDir()
	writePhotos(t, srcDir, "a.jpg", "b.jpg")

	s := New(nil)
	if _, err := s.Scan(srcDir, nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	// All files land under the unknown-camera folder in camera mode.
	s.SetSettings(Settings{Structure: types.StructureByCamera, DateFormat: types.DateFormatYMDHier})

	key := s.Index().Keys()[0]
	if !s.ToggleFolder(key) {
		t.Fatal("expected folder excluded")
	}

	// A prefix-only change keeps the structure but renames every key, so
	// the old exclusion has nothing to attach to and is dropped.
	s.SetSettings(Settings{Structure: types.StructureByCamera, DateFormat: types.DateFormatYMDHier, Prefix: "trip"})
	if got := s.ExclusionStats().ExcludedFolders; got != 0 {
		t.Fatalf("expected stale folder exclusion dropped, got %d", got)
	}

	// Re-exclude under the new structure, then rebuild with identical
	// settings: the exclusion must survive.
	key = s.Index().Keys()[0]
	s.ToggleFolder(key)
	s.SetSettings(Settings{Structure: types.StructureByCamera, DateFormat: types.DateFormatYMDHier, Prefix: "trip"})
	if got := s.ExclusionStats().ExcludedFolders; got != 1 {
		t.Fatalf("expected surviving folder exclusion, got %d", got)
	}
}

func TestToggleFolder_UnknownKeyIsNoop(t *testing.T) {
	s := New(nil)
	if s.ToggleFolder("never/existed") {
		t.Fatal("expected unknown key toggle to report not excluded")
	}
}

func TestCopy_ValidatesInputsBeforeIO(t *testing.T) {
	s := New(nil)

	if _, err := s.Copy("", true, nil); !errors.Is(err, ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination, got %v", err)
	}
	if _, err := s.Copy(t.TempDir(), true, nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestVerify_ValidatesInputsBeforeIO(t *testing.T) {
	s := New(nil)

	if _, err := s.Verify("", true, types.VerifySize, nil); !errors.Is(err, ErrNoDestination) {
		t.Fatalf("expected ErrNoDestination, got %v", err)
	}
	if _, err := s.Verify(t.TempDir(), true, types.VerifySize, nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestCopyThenVerify_AgreeOnDestinations(t *testing.T) {
	srcDir := t.TempDir()
	writePhotos(t, srcDir, "a.jpg", "b.jpg", "c.jpg")
	destDir := t.TempDir()

	s := New(nil)
	if _, err := s.Scan(srcDir, nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	copyResult, err := s.Copy(destDir, true, nil)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if copyResult.Succeeded != 3 {
		t.Fatalf("expected 3 copies, got %+v", copyResult)
	}
	if copyResult.TotalItems != 3 || copyResult.ExcludedItems != 0 {
		t.Fatalf("unexpected totals: %+v", copyResult)
	}

	verifyResult, err := s.Verify(destDir, true, types.VerifySizeHash, nil)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verifyResult.Verified != 3 || verifyResult.Failed != 0 {
		t.Fatalf("verifier disagrees with copier: %+v", verifyResult)
	}
}

func TestCopy_ExcludedItemsStayHome(t *testing.T) {
	srcDir := t.TempDir()
	writePhotos(t, srcDir, "keep.jpg", "drop.jpg")
	destDir := t.TempDir()

	s := New(nil)
	items, err := s.Scan(srcDir, nil)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	for _, item := range items {
		if item.FileName == "drop.jpg" {
			s.ToggleItem(item.ID)
		}
	}

	result, err := s.Copy(destDir, true, nil)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if result.Succeeded != 1 || result.ExcludedItems != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	found := false
	filepath.WalkDir(destDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && d.Name() == "drop.jpg" {
			found = true
		}
		return nil
	})
	if found {
		t.Fatal("excluded file must not be copied")
	}
}

func TestClear_ResetsSessionToDefaults(t *testing.T) {
	srcDir := t.TempDir()
	writePhotos(t, srcDir, "a.jpg")

	s := New(nil)
	if _, err := s.Scan(srcDir, nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	s.SetSettings(Settings{Structure: types.StructureByCamera, DateFormat: types.DateFormatY})

	s.Clear()

	if len(s.Items()) != 0 {
		t.Fatal("expected empty catalog after clear")
	}
	if s.Settings().Structure != types.StructureByDate {
		t.Fatalf("expected default settings restored, got %+v", s.Settings())
	}
	if s.Index().FolderCount() != 0 {
		t.Fatal("expected empty index after clear")
	}
}
