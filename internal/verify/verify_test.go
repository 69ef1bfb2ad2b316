package verify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wjakew/fotofusion-desktop/internal/classify"
	"github.com/wjakew/fotofusion-desktop/internal/copier"
	"github.com/wjakew/fotofusion-desktop/internal/exclude"
	"github.com/wjakew/fotofusion-desktop/internal/planner"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

func sourceItem(t *testing.T, dir, id, name, content string) types.Item {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create source file: %v", err)
	}
	return types.Item{
		ID:         id,
		SourcePath: path,
		FileName:   name,
		SizeBytes:  int64(len(content)),
		Metadata: types.Metadata{
			Camera:      "Canon",
			Lens:        types.UnknownLens,
			CaptureTime: time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC),
		},
	}
}

func copiedPlan(t *testing.T, destRoot string, items ...types.Item) *planner.Plan {
	t.Helper()
	index := classify.NewIndex()
	for _, item := range items {
		index.Add("f", item)
	}
	plan := planner.Build(index, exclude.New(nil), destRoot, true, nil)
	result := copier.New(nil).Run(plan, nil, nil)
	if result.Failed != 0 {
		t.Fatalf("setup copy failed: %+v", result)
	}
	return plan
}

func TestRun_AllFilesVerifyAfterCleanCopy(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	plan := copiedPlan(t, filepath.Join(tmpDir, "dest"),
		sourceItem(t, srcDir, "a", "a.jpg", "aaaa"),
		sourceItem(t, srcDir, "b", "b.jpg", "bb"),
	)

	result := New(types.VerifySize).Run(plan, nil)

	if result.Verified != 2 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.SizeMatch != 2 {
		t.Fatalf("expected 2 size matches, got %d", result.SizeMatch)
	}
	if result.HashMatch != 0 {
		t.Fatalf("size mode must not hash, got %d hash matches", result.HashMatch)
	}
}

func TestRun_MissingDestinationCountsAsMissingAndFailed(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	destDir := filepath.Join(tmpDir, "dest")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	plan := copiedPlan(t, destDir, sourceItem(t, srcDir, "a", "a.jpg", "aaaa"))

	if err := os.Remove(filepath.Join(destDir, "f", "a.jpg")); err != nil {
		t.Fatalf("failed to remove destination: %v", err)
	}

	result := New(types.VerifySize).Run(plan, nil)

	if result.Missing != 1 || result.Failed != 1 || result.Verified != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error record, got %+v", result.Errors)
	}
}

func TestRun_TruncatedDestinationIsSizeMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	destDir := filepath.Join(tmpDir, "dest")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	plan := copiedPlan(t, destDir, sourceItem(t, srcDir, "a", "a.jpg", "full content"))

	destPath := filepath.Join(destDir, "f", "a.jpg")
	if err := os.WriteFile(destPath, []byte("full"), 0644); err != nil {
		t.Fatalf("failed to truncate destination: %v", err)
	}

	result := New(types.VerifySize).Run(plan, nil)

	if result.SizeMismatch != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Verified != 0 {
		t.Fatalf("truncated file must not verify, got %+v", result)
	}
}

func TestRun_HashModeCatchesSameSizeCorruption(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	destDir := filepath.Join(tmpDir, "dest")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	plan := copiedPlan(t, destDir, sourceItem(t, srcDir, "a", "a.jpg", "abcd"))

	// Same length, different bytes: invisible to size checking.
	destPath := filepath.Join(destDir, "f", "a.jpg")
	if err := os.WriteFile(destPath, []byte("abXd"), 0644); err != nil {
		t.Fatalf("failed to corrupt destination: %v", err)
	}

	sizeOnly := New(types.VerifySize).Run(plan, nil)
	if sizeOnly.Failed != 0 {
		t.Fatalf("size mode should pass same-size corruption: %+v", sizeOnly)
	}

	hashed := New(types.VerifySizeHash).Run(plan, nil)
	if hashed.HashMismatch != 1 || hashed.Failed != 1 || hashed.Verified != 0 {
		t.Fatalf("unexpected hash-mode result: %+v", hashed)
	}
	if hashed.SizeMatch != 1 {
		t.Fatalf("size still matches before hashing, got %+v", hashed)
	}
}

func TestRun_HashModeVerifiesIntactCopy(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	plan := copiedPlan(t, filepath.Join(tmpDir, "dest"),
		sourceItem(t, srcDir, "a", "a.jpg", "same everywhere"))

	result := New(types.VerifySizeHash).Run(plan, nil)

	if result.Verified != 1 || result.HashMatch != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRun_EmitsPhaseProgression(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}

	plan := copiedPlan(t, filepath.Join(tmpDir, "dest"),
		sourceItem(t, srcDir, "a", "a.jpg", "x"))

	var phases []types.VerifyPhase
	New(types.VerifySizeHash).Run(plan, func(p types.VerifyProgress) {
		phases = append(phases, p.Phase)
	})

	want := []types.VerifyPhase{
		types.PhaseExists, types.PhaseSourceHash, types.PhaseDestHash, types.PhaseVerdict,
	}
	if len(phases) != len(want) {
		t.Fatalf("unexpected phase count: %v", phases)
	}
	for i, phase := range want {
		if phases[i] != phase {
			t.Fatalf("expected phase %q at %d, got %q", phase, i, phases[i])
		}
	}
}
