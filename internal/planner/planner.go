// Package planner turns the current folder index into a concrete copy plan:
// which destination directories to create and the exact destination path of
// every included file. The copier executes a plan; the verifier re-derives
// the same plan so expected paths always agree with what a copy run with the
// same settings produced.
package planner

import (
	"fmt"
	"path/filepath"

	"github.com/wjakew/fotofusion-desktop/internal/classify"
	"github.com/wjakew/fotofusion-desktop/internal/exclude"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// FilePlan is one planned file copy. Sequence is the 1-based position of the
// file in the run's processing order; generated names embed it.
type FilePlan struct {
	Item     types.Item
	DestPath string
	Sequence int
}

// FolderPlan groups the planned files of one destination folder. Dir is the
// OS-specific absolute destination directory.
type FolderPlan struct {
	Key   classify.FolderKey
	Dir   string
	Files []FilePlan
}

// Plan is the complete per-run copy plan.
type Plan struct {
	Folders    []FolderPlan
	TotalFiles int
}

// Build filters the index by folder exclusion, then per-item exclusion,
// then the capture-time window, and assigns every surviving file its
// destination path. Folders that end up empty are dropped.
func Build(index *classify.Index, excl *exclude.Model, destRoot string, preserveOriginal bool, window *types.TimeWindow) *Plan {
	plan := &Plan{}
	sequence := 0

	for _, key := range index.Keys() {
		if excl != nil && excl.IsFolderExcluded(key) {
			continue
		}

		folder := FolderPlan{
			Key: key,
			Dir: filepath.Join(destRoot, key.Filesystem()),
		}

		for _, item := range index.Items(key) {
			if excl != nil && excl.IsItemExcluded(item.ID) {
				continue
			}
			if !window.Contains(item.Metadata.CaptureTime) {
				continue
			}

			sequence++
			name := item.FileName
			if !preserveOriginal {
				name = GeneratedName(item, sequence)
			}

			folder.Files = append(folder.Files, FilePlan{
				Item:     item,
				DestPath: filepath.Join(folder.Dir, name),
				Sequence: sequence,
			})
		}

		if len(folder.Files) > 0 {
			plan.Folders = append(plan.Folders, folder)
			plan.TotalFiles += len(folder.Files)
		}
	}

	return plan
}

// GeneratedName builds the deterministic destination file name used when
// original names are not preserved:
// <capture timestamp>_<sanitized camera, max 10 chars>_<4-digit sequence><ext>.
func GeneratedName(item types.Item, sequence int) string {
	timestamp := item.Metadata.CaptureTime.UTC().Format("2006-01-02T15-04-05")

	camera := classify.Sanitize(item.Metadata.Camera)
	if len(camera) > 10 {
		camera = camera[:10]
	}

	ext := filepath.Ext(item.FileName)
	return fmt.Sprintf("%s_%s_%04d%s", timestamp, camera, sequence, ext)
}
