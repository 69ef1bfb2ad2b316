// Package history keeps a persistent record of completed copy and verify
// runs in the app data directory.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// maxEntries caps the stored history; the oldest runs fall off.
const maxEntries = 100

// Entry is one recorded run, newest first in the store.
type Entry struct {
	ID           string                    `json:"id"`
	Kind         string                    `json:"kind"` // "copy" or "verify"
	Timestamp    time.Time                 `json:"timestamp"`
	Source       string                    `json:"source,omitempty"`
	Destination  string                    `json:"destination"`
	Structure    types.StructurePolicy     `json:"structure,omitempty"`
	DateFormat   types.DateFormat          `json:"date_format,omitempty"`
	Copy         *types.CopyResult         `json:"copy,omitempty"`
	Verification *types.VerificationResult `json:"verification,omitempty"`
}

type Store struct {
	mu       sync.RWMutex
	filePath string
	entries  []Entry
}

func New(filePath string) *Store {
	return &Store{filePath: filePath}
}

// Load reads the history file; a missing file yields an empty store.
func Load(filePath string) (*Store, error) {
	s := New(filePath)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultPath returns the history file location under ~/.fotofusion.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fotofusion", "history.json"), nil
}

// Append records a run at the head of the history and persists the store.
// ID and Timestamp are assigned here.
func (s *Store) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = fmt.Sprintf("run_%d", time.Now().UnixNano())
	e.Timestamp = time.Now()

	s.entries = append([]Entry{e}, s.entries...)
	if len(s.entries) > maxEntries {
		s.entries = s.entries[:maxEntries]
	}

	return s.save()
}

// Entries returns up to limit recorded runs, newest first. A non-positive
// limit returns everything.
func (s *Store) Entries(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}
