package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

func TestValidate_RequiresSourceAndDest(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "source" {
		t.Fatalf("expected source validation error, got %v", err)
	}

	cfg.Source = "/photos"
	err = cfg.Validate()
	if !errors.As(err, &validationErr) || validationErr.Field != "dest" {
		t.Fatalf("expected dest validation error, got %v", err)
	}

	cfg.Dest = "/backup"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_BackfillsDefaults(t *testing.T) {
	cfg := &Config{Source: "/a", Dest: "/b"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if cfg.Structure != types.StructureByDate {
		t.Fatalf("expected default structure, got %q", cfg.Structure)
	}
	if cfg.DateFormat != types.DateFormatYMDHier {
		t.Fatalf("expected default date format, got %q", cfg.DateFormat)
	}
	if cfg.VerifyMode != types.VerifySize {
		t.Fatalf("expected default verify mode, got %q", cfg.VerifyMode)
	}
	if cfg.LogFile == "" {
		t.Fatal("expected log file default")
	}
}

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source: /photos/card
dest: /backup
structure: camera-date
date_format: YYYY-MM
prefix: trip
preserve_original: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Source != "/photos/card" || cfg.Dest != "/backup" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.Structure != types.StructureCameraDate {
		t.Fatalf("unexpected structure: %q", cfg.Structure)
	}
	if cfg.DateFormat != types.DateFormatYM {
		t.Fatalf("unexpected date format: %q", cfg.DateFormat)
	}
	if cfg.PreserveOriginal {
		t.Fatal("expected preserve_original false")
	}
}

func TestLoadFromFile_MissingFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestWindow_EmptyBoundsMeanNoFilter(t *testing.T) {
	cfg := &Config{}
	window, err := cfg.Window()
	if err != nil {
		t.Fatalf("window failed: %v", err)
	}
	if window != nil {
		t.Fatalf("expected nil window, got %+v", window)
	}
}

func TestWindow_DateOnlyEndExtendsToEndOfDay(t *testing.T) {
	cfg := &Config{WindowStart: "2024-03-01", WindowEnd: "2024-03-31"}
	window, err := cfg.Window()
	if err != nil {
		t.Fatalf("window failed: %v", err)
	}

	lastSecond := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.Local)
	if !window.Contains(lastSecond) {
		t.Fatal("end-of-day capture must fall inside a date-only window")
	}

	nextDay := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.Local)
	if window.Contains(nextDay) {
		t.Fatal("next day must fall outside the window")
	}

	startOfDay := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	if !window.Contains(startOfDay) {
		t.Fatal("start bound must be inclusive")
	}
}

func TestWindow_AcceptsRFC3339Bounds(t *testing.T) {
	cfg := &Config{WindowStart: "2024-03-01T08:30:00Z"}
	window, err := cfg.Window()
	if err != nil {
		t.Fatalf("window failed: %v", err)
	}
	if window.Start.UTC().Hour() != 8 {
		t.Fatalf("unexpected start: %v", window.Start)
	}
}

func TestWindow_RejectsGarbageBounds(t *testing.T) {
	cfg := &Config{WindowEnd: "last tuesday"}
	_, err := cfg.Window()

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "window_end" {
		t.Fatalf("expected window_end validation error, got %v", err)
	}
}

func TestPresetStore_SaveAssignsIDAndListsBack(t *testing.T) {
	ps := NewPresetStoreAt(filepath.Join(t.TempDir(), "presets.json"))

	saved, err := ps.Save(types.Preset{Name: "travel", Structure: types.StructureByDate})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("expected assigned id and createdAt, got %+v", saved)
	}

	presets, err := ps.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(presets) != 1 || presets[0].Name != "travel" {
		t.Fatalf("unexpected presets: %+v", presets)
	}
}

func TestPresetStore_SaveRejectsEmptyName(t *testing.T) {
	ps := NewPresetStoreAt(filepath.Join(t.TempDir(), "presets.json"))

	_, err := ps.Save(types.Preset{})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
}

func TestPresetStore_SaveWithIDReplaces(t *testing.T) {
	ps := NewPresetStoreAt(filepath.Join(t.TempDir(), "presets.json"))

	saved, err := ps.Save(types.Preset{Name: "travel"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	saved.Prefix = "trip"
	if _, err := ps.Save(saved); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	presets, _ := ps.List()
	if len(presets) != 1 || presets[0].Prefix != "trip" {
		t.Fatalf("expected in-place update, got %+v", presets)
	}
}

func TestPresetStore_DeleteReportsExistence(t *testing.T) {
	ps := NewPresetStoreAt(filepath.Join(t.TempDir(), "presets.json"))

	saved, _ := ps.Save(types.Preset{Name: "travel"})

	found, err := ps.Delete(saved.ID)
	if err != nil || !found {
		t.Fatalf("expected delete to find preset: found=%v err=%v", found, err)
	}

	found, err = ps.Delete(saved.ID)
	if err != nil || found {
		t.Fatalf("expected second delete to miss: found=%v err=%v", found, err)
	}
}

func TestPresetStore_TouchLastUsed(t *testing.T) {
	ps := NewPresetStoreAt(filepath.Join(t.TempDir(), "presets.json"))
	saved, _ := ps.Save(types.Preset{Name: "travel"})

	if err := ps.TouchLastUsed(saved.ID); err != nil {
		t.Fatalf("touch failed: %v", err)
	}

	got, found, err := ps.Get(saved.ID)
	if err != nil || !found {
		t.Fatalf("get failed: found=%v err=%v", found, err)
	}
	if got.LastUsed.IsZero() {
		t.Fatal("expected lastUsed stamped")
	}

	if err := ps.TouchLastUsed("ghost"); err == nil {
		t.Fatal("expected error touching unknown preset")
	}
}

func TestPresetStore_ExportImportRoundTripSkipsDuplicates(t *testing.T) {
	tmpDir := t.TempDir()
	src := NewPresetStoreAt(filepath.Join(tmpDir, "src.json"))
	dst := NewPresetStoreAt(filepath.Join(tmpDir, "dst.json"))

	src.Save(types.Preset{Name: "travel"})
	src.Save(types.Preset{Name: "studio"})

	exportPath := filepath.Join(tmpDir, "export.json")
	if err := src.Export(nil, exportPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	// Pre-existing preset with a colliding name.
	dst.Save(types.Preset{Name: "studio"})

	result, err := dst.Import(exportPath)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 1 || result.Total != 2 {
		t.Fatalf("unexpected import result: %+v", result)
	}

	presets, _ := dst.List()
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets after import, got %d", len(presets))
	}
	for _, p := range presets {
		if p.Name == "travel" && p.ImportedAt.IsZero() {
			t.Fatal("imported preset must carry importedAt")
		}
	}
}

func TestConfigPresetRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dest = "/backup"
	cfg.Structure = types.StructureCameraDateFlat
	cfg.Prefix = "trip"
	cfg.WindowStart = "2024-03-01"

	preset := ConfigToPreset(cfg, "march trip")
	back := PresetToConfig(preset)

	if back.Dest != "/backup" || back.Structure != types.StructureCameraDateFlat {
		t.Fatalf("round trip lost fields: %+v", back)
	}
	if back.Prefix != "trip" || back.WindowStart != "2024-03-01" {
		t.Fatalf("round trip lost fields: %+v", back)
	}
}
