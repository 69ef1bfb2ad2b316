package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

func TestCameraLabel_ModelContainingMakeWinsAlone(t *testing.T) {
	if got := CameraLabel("Canon", "Canon EOS R5"); got != "Canon EOS R5" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestCameraLabel_ModelContainsMakeCaseInsensitive(t *testing.T) {
	if got := CameraLabel("NIKON CORPORATION", ""); got != "NIKON CORPORATION" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := CameraLabel("nikon", "NIKON Z9"); got != "NIKON Z9" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestCameraLabel_DistinctMakeAndModelJoin(t *testing.T) {
	if got := CameraLabel("Sony", "ILCE-7M4"); got != "Sony ILCE-7M4" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestCameraLabel_BothEmptyYieldsSentinel(t *testing.T) {
	if got := CameraLabel("", ""); got != types.UnknownCamera {
		t.Fatalf("expected sentinel, got %q", got)
	}
}

func TestCameraLabel_SingleSideUsedAsIs(t *testing.T) {
	if got := CameraLabel("Canon", ""); got != "Canon" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := CameraLabel("", "EOS R5"); got != "EOS R5" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestLensLabel_BothEmptyYieldsSentinel(t *testing.T) {
	if got := LensLabel("", ""); got != types.UnknownLens {
		t.Fatalf("expected sentinel, got %q", got)
	}
}

func TestExtract_DegradesToStatOnUnparseableFile(t *testing.T) {
	// A file with a photo extension but garbage content must still yield a
	// usable record: sentinels plus the file modification time.
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "broken.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	modTime := time.Date(2023, time.June, 15, 10, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}

	meta := New().Extract(path)

	if meta.Camera != types.UnknownCamera {
		t.Fatalf("expected unknown camera, got %q", meta.Camera)
	}
	if meta.Lens != types.UnknownLens {
		t.Fatalf("expected unknown lens, got %q", meta.Lens)
	}
	if !meta.CaptureTime.Equal(modTime) {
		t.Fatalf("expected capture time %v, got %v", modTime, meta.CaptureTime)
	}
	if meta.Source != "file:mtime" {
		t.Fatalf("unexpected capture time source: %q", meta.Source)
	}
}

func TestExtract_MissingFileStillReturnsSentinels(t *testing.T) {
	meta := New().Extract(filepath.Join(t.TempDir(), "gone.jpg"))

	if meta.Camera != types.UnknownCamera || meta.Lens != types.UnknownLens {
		t.Fatalf("expected sentinels, got camera=%q lens=%q", meta.Camera, meta.Lens)
	}
}

func TestExtension_LowercasesAndStripsDot(t *testing.T) {
	if got := Extension("/a/b/IMG_0001.CR3"); got != "cr3" {
		t.Fatalf("unexpected extension: %q", got)
	}
	if got := Extension("noext"); got != "" {
		t.Fatalf("expected empty extension, got %q", got)
	}
}
