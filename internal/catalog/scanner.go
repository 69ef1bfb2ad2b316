// Package catalog discovers photo files and owns the in-memory item set for
// one scan session.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wjakew/fotofusion-desktop/internal/metadata"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// supportedExtensions is the fixed, case-insensitive set of photographic and
// raw formats a scan picks up.
var supportedExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "tiff": true, "tif": true,
	"raw": true, "cr2": true, "cr3": true, "nef": true, "arw": true,
	"orf": true, "rw2": true, "pef": true, "srw": true, "raf": true,
	"dng": true, "3fr": true, "ari": true, "bay": true, "crw": true,
	"dcr": true, "erf": true, "fff": true, "iiq": true, "k25": true,
	"kdc": true, "mdc": true, "mos": true, "mrw": true, "nrw": true,
	"ptx": true, "r3d": true, "rwl": true, "sr2": true, "srf": true,
	"x3f": true,
}

// IsSupportedExtension reports whether ext (without dot, any case) is a
// recognized photo format.
func IsSupportedExtension(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// ProgressFunc receives incremental scan progress.
type ProgressFunc func(types.ScanProgress)

type Scanner struct {
	extractor *metadata.Extractor
}

func NewScanner() *Scanner {
	return &Scanner{extractor: metadata.New()}
}

// Scan enumerates every supported file under root, extracts metadata for
// each, and returns the items in stable path order. A single file's
// extraction failure never aborts the scan; the extractor degrades to
// stat-based metadata on its own.
func (s *Scanner) Scan(root string, onProgress ProgressFunc) ([]types.Item, error) {
	paths, err := s.collectPaths(root)
	if err != nil {
		return nil, err
	}

	scanEpoch := time.Now().UnixMilli()
	items := make([]types.Item, 0, len(paths))

	for i, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			// File vanished between walk and stat; drop it.
			continue
		}

		items = append(items, types.Item{
			ID:         fmt.Sprintf("photo_%d_%d", scanEpoch, i),
			SourcePath: path,
			FileName:   filepath.Base(path),
			SizeBytes:  info.Size(),
			Metadata:   s.extractor.Extract(path),
		})

		if onProgress != nil {
			onProgress(types.ScanProgress{
				Current:  i + 1,
				Total:    len(paths),
				Filename: filepath.Base(path),
			})
		}
	}

	return items, nil
}

// collectPaths walks root and returns deduplicated absolute paths of
// supported files in sorted order, so item IDs and output ordering are
// reproducible within a session.
func (s *Scanner) collectPaths(root string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if !supportedExtensions[ext] {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return nil
		}
		seen[abs] = true
		paths = append(paths, abs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
