// Package session owns the state of one open project: the catalog, the
// exclusion overlay, the current folder index, and the organization
// settings. All mutation goes through explicit methods; rebuilding the
// index always reconciles the exclusion overlay afterwards. The session is
// not safe for concurrent use; callers serialize scan/copy/verify runs.
package session

import (
	"errors"

	"github.com/wjakew/fotofusion-desktop/internal/catalog"
	"github.com/wjakew/fotofusion-desktop/internal/classify"
	"github.com/wjakew/fotofusion-desktop/internal/copier"
	"github.com/wjakew/fotofusion-desktop/internal/exclude"
	"github.com/wjakew/fotofusion-desktop/internal/log"
	"github.com/wjakew/fotofusion-desktop/internal/planner"
	"github.com/wjakew/fotofusion-desktop/internal/verify"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// User-input errors rejected before any I/O starts.
var (
	ErrNoSource      = errors.New("no source folder selected")
	ErrNoDestination = errors.New("no destination folder selected")
	ErrEmptyCatalog  = errors.New("catalog is empty; scan a source folder first")
)

// Settings are the active organization settings of the session.
type Settings struct {
	Structure  types.StructurePolicy
	DateFormat types.DateFormat
	Prefix     string
	Window     *types.TimeWindow
}

func DefaultSettings() Settings {
	return Settings{
		Structure:  types.StructureByDate,
		DateFormat: types.DateFormatYMDHier,
	}
}

type Session struct {
	logger   *log.Logger
	catalog  *catalog.Catalog
	scanner  *catalog.Scanner
	excl     *exclude.Model
	index    *classify.Index
	settings Settings
}

func New(logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Session{
		logger:   logger,
		catalog:  catalog.New(),
		scanner:  catalog.NewScanner(),
		settings: DefaultSettings(),
	}
	s.excl = exclude.New(logger.Warn)
	s.index = classify.NewIndex()
	return s
}

// Scan discards the previous session contents (items and exclusion state)
// and scans root for photos, rebuilding the folder index under the current
// settings when done.
func (s *Session) Scan(root string, onProgress catalog.ProgressFunc) ([]types.Item, error) {
	if root == "" {
		return nil, ErrNoSource
	}

	s.catalog.Clear()
	s.excl.Clear()
	s.index = classify.NewIndex()

	items, err := s.scanner.Scan(root, onProgress)
	if err != nil {
		return nil, err
	}

	s.catalog.Replace(items)
	s.Rebuild()
	return items, nil
}

// SetSettings updates the organization settings and rebuilds the index.
// Exclusion choices survive the rebuild whenever the same folder key still
// exists under the new settings.
func (s *Session) SetSettings(settings Settings) {
	s.settings = settings
	s.Rebuild()
}

// Settings returns the active settings.
func (s *Session) Settings() Settings {
	return s.settings
}

// Rebuild reclassifies the catalog into a fresh folder index and reconciles
// the exclusion overlay against it.
func (s *Session) Rebuild() {
	s.index = classify.Classify(
		s.catalog.Items(),
		s.settings.Structure,
		s.settings.Prefix,
		s.settings.DateFormat,
		s.settings.Window,
	)
	s.excl.Reconcile(s.index, s.catalog.Has)
}

// Index returns the current folder index.
func (s *Session) Index() *classify.Index {
	return s.index
}

// Items returns the catalog items in scan order.
func (s *Session) Items() []types.Item {
	return s.catalog.Items()
}

// IncludedItems returns the catalog items passing the exclusion overlay.
func (s *Session) IncludedItems() []types.Item {
	return s.excl.IncludedItems(s.catalog.Items())
}

// ToggleItem flips one item's individual exclusion; ids not in the catalog
// are a no-op.
func (s *Session) ToggleItem(id string) bool {
	return s.excl.ToggleItem(id, s.catalog.Has)
}

// ToggleFolder flips one folder key's exclusion; unknown keys are a no-op.
func (s *Session) ToggleFolder(key classify.FolderKey) bool {
	return s.excl.ToggleFolder(key, s.index)
}

// ExclusionStats summarizes the exclusion overlay.
func (s *Session) ExclusionStats() types.ExclusionStats {
	return s.excl.Stats(s.catalog.Items(), s.index)
}

// Exclusions exposes the overlay for read-mostly consumers (report, web).
func (s *Session) Exclusions() *exclude.Model {
	return s.excl
}

// ClearExclusions empties both exclusion sets.
func (s *Session) ClearExclusions() {
	s.excl.Clear()
}

// Clear resets the whole session: catalog, index, exclusions, settings.
func (s *Session) Clear() {
	s.catalog.Clear()
	s.excl.Clear()
	s.settings = DefaultSettings()
	s.index = classify.NewIndex()
}

// Plan builds the copy plan for the current index under the current
// exclusions and time window.
func (s *Session) Plan(destRoot string, preserveOriginal bool) *planner.Plan {
	return planner.Build(s.index, s.excl, destRoot, preserveOriginal, s.settings.Window)
}

// Copy runs the copy engine over the current filtered index. Callers must
// classify with the intended settings before calling; Copy never uses a
// stale index because the session rebuilds on every settings change.
func (s *Session) Copy(destRoot string, preserveOriginal bool, onProgress copier.ProgressFunc) (types.CopyResult, error) {
	if destRoot == "" {
		return types.CopyResult{}, ErrNoDestination
	}
	if s.catalog.Len() == 0 {
		return types.CopyResult{}, ErrEmptyCatalog
	}

	plan := s.Plan(destRoot, preserveOriginal)
	result := copier.New(s.logger).Run(plan, s.settings.Window, onProgress)
	result.TotalItems = s.catalog.Len()
	result.ExcludedItems = result.TotalItems - result.IncludedItems
	s.logger.CopySummary(result)
	return result, nil
}

// Verify re-derives the copy plan under the same settings and checks every
// expected destination file.
func (s *Session) Verify(destRoot string, preserveOriginal bool, mode types.VerifyMode, onProgress verify.ProgressFunc) (types.VerificationResult, error) {
	if destRoot == "" {
		return types.VerificationResult{}, ErrNoDestination
	}
	if s.catalog.Len() == 0 {
		return types.VerificationResult{}, ErrEmptyCatalog
	}

	plan := s.Plan(destRoot, preserveOriginal)
	result := verify.New(mode).Run(plan, onProgress)
	s.logger.VerifySummary(result)
	return result, nil
}
