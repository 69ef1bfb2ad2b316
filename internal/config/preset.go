package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// PresetStore persists organization presets as a JSON record file in the
// app data directory. IDs and timestamps are assigned by the store.
type PresetStore struct {
	filePath string
}

// NewPresetStore creates the store under ~/.fotofusion.
func NewPresetStore() (*PresetStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".fotofusion")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &PresetStore{filePath: filepath.Join(dataDir, "presets.json")}, nil
}

// NewPresetStoreAt creates a store backed by an explicit file path.
func NewPresetStoreAt(filePath string) *PresetStore {
	return &PresetStore{filePath: filePath}
}

// List returns all saved presets.
func (ps *PresetStore) List() ([]types.Preset, error) {
	data, err := os.ReadFile(ps.filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}

	var presets []types.Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	return presets, nil
}

// Save stores a preset. A preset without an id gets a fresh id and
// createdAt stamp; a preset with a known id replaces the stored record.
func (ps *PresetStore) Save(preset types.Preset) (types.Preset, error) {
	if preset.Name == "" {
		return types.Preset{}, &ValidationError{Field: "name", Message: "preset name cannot be empty"}
	}

	presets, err := ps.List()
	if err != nil {
		return types.Preset{}, err
	}

	if preset.ID == "" {
		preset.ID = fmt.Sprintf("preset_%d", time.Now().UnixNano())
		preset.CreatedAt = time.Now()
		presets = append(presets, preset)
	} else {
		replaced := false
		for i := range presets {
			if presets[i].ID == preset.ID {
				presets[i] = preset
				replaced = true
				break
			}
		}
		if !replaced {
			presets = append(presets, preset)
		}
	}

	if err := ps.write(presets); err != nil {
		return types.Preset{}, err
	}
	return preset, nil
}

// Delete removes a preset by id and reports whether it existed.
func (ps *PresetStore) Delete(id string) (bool, error) {
	presets, err := ps.List()
	if err != nil {
		return false, err
	}

	kept := presets[:0]
	found := false
	for _, p := range presets {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}

	if !found {
		return false, nil
	}
	return true, ps.write(kept)
}

// TouchLastUsed stamps a preset's lastUsed time.
func (ps *PresetStore) TouchLastUsed(id string) error {
	presets, err := ps.List()
	if err != nil {
		return err
	}

	for i := range presets {
		if presets[i].ID == id {
			presets[i].LastUsed = time.Now()
			return ps.write(presets)
		}
	}
	return fmt.Errorf("preset not found: %s", id)
}

// Get looks a preset up by id.
func (ps *PresetStore) Get(id string) (types.Preset, bool, error) {
	presets, err := ps.List()
	if err != nil {
		return types.Preset{}, false, err
	}
	for _, p := range presets {
		if p.ID == id {
			return p, true, nil
		}
	}
	return types.Preset{}, false, nil
}

// Export writes the selected presets to path as JSON. An empty ids slice
// exports everything.
func (ps *PresetStore) Export(ids []string, path string) error {
	presets, err := ps.List()
	if err != nil {
		return err
	}

	var selected []types.Preset
	if len(ids) == 0 {
		selected = presets
	} else {
		want := make(map[string]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		for _, p := range presets {
			if want[p.ID] {
				selected = append(selected, p)
			}
		}
	}

	data, err := json.MarshalIndent(selected, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ImportResult summarizes a preset import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// Import reads presets from path, skipping records whose name already
// exists. Imported presets get fresh ids and an importedAt stamp.
func (ps *PresetStore) Import(path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read import file: %w", err)
	}

	var incoming []types.Preset
	if err := json.Unmarshal(data, &incoming); err != nil {
		return ImportResult{}, fmt.Errorf("failed to parse import file: %w", err)
	}

	existing, err := ps.List()
	if err != nil {
		return ImportResult{}, err
	}

	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	result := ImportResult{Total: len(incoming)}
	now := time.Now()

	for _, p := range incoming {
		if names[p.Name] {
			result.Skipped++
			continue
		}
		p.ID = fmt.Sprintf("preset_%d_%d", now.UnixNano(), result.Imported)
		p.CreatedAt = now
		p.ImportedAt = now
		existing = append(existing, p)
		names[p.Name] = true
		result.Imported++
	}

	if result.Imported > 0 {
		if err := ps.write(existing); err != nil {
			return ImportResult{}, err
		}
	}
	return result, nil
}

// write persists the preset list atomically: write to a temp file, then
// rename into place.
func (ps *PresetStore) write(presets []types.Preset) error {
	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	tmpFile := ps.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}
	if err := os.Rename(tmpFile, ps.filePath); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename presets file: %w", err)
	}
	return nil
}

// ConfigToPreset snapshots the organization settings of cfg as a preset.
func ConfigToPreset(cfg *Config, name string) types.Preset {
	return types.Preset{
		Name:             name,
		Structure:        cfg.Structure,
		DateFormat:       cfg.DateFormat,
		Prefix:           cfg.Prefix,
		PreserveOriginal: cfg.PreserveOriginal,
		Destination:      cfg.Dest,
		WindowStart:      cfg.WindowStart,
		WindowEnd:        cfg.WindowEnd,
	}
}

// PresetToConfig applies a preset on top of the defaults.
func PresetToConfig(preset types.Preset) *Config {
	cfg := DefaultConfig()
	cfg.Structure = preset.Structure
	cfg.DateFormat = preset.DateFormat
	cfg.Prefix = preset.Prefix
	cfg.PreserveOriginal = preset.PreserveOriginal
	cfg.Dest = preset.Destination
	cfg.WindowStart = preset.WindowStart
	cfg.WindowEnd = preset.WindowEnd
	return cfg
}
