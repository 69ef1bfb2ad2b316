package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wjakew/fotofusion-desktop/internal/classify"
	"github.com/wjakew/fotofusion-desktop/internal/exclude"
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// FileName is the fixed report base name written into the destination root.
const FileName = "fotofusion-report.md"

// maxFilesPerFolder limits how many file names are listed per folder.
const maxFilesPerFolder = 10

// Options describe the settings a copy run was performed with.
type Options struct {
	Structure   types.StructurePolicy
	DateFormat  types.DateFormat
	Prefix      string
	Destination string
}

// Generate renders the markdown copy report for one completed run.
func Generate(items []types.Item, excl *exclude.Model, index *classify.Index, result types.CopyResult, opts Options) string {
	var b strings.Builder

	durationMinutes := result.EndTime.Sub(result.StartTime).Minutes()
	exclStats := excl.Stats(items, index)
	included := excl.IncludedItems(items)

	b.WriteString("# FotoFusion Copy Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Duration:** %.2f minutes\n\n", durationMinutes)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Photos Found:** %d\n", result.TotalItems)
	fmt.Fprintf(&b, "- **Photos Included:** %d\n", result.IncludedItems)
	fmt.Fprintf(&b, "- **Photos Excluded:** %d\n", result.ExcludedItems)
	fmt.Fprintf(&b, "- **Successfully Copied:** %d\n", result.Succeeded)
	fmt.Fprintf(&b, "- **Skipped (already exist):** %d\n", result.SkippedExists)
	fmt.Fprintf(&b, "- **Failed:** %d\n", result.Failed)
	fmt.Fprintf(&b, "- **Folders Created:** %d\n", result.FoldersCopied)
	fmt.Fprintf(&b, "- **Structure Type:** %s\n", opts.Structure)
	fmt.Fprintf(&b, "- **Date Format:** %s\n", opts.DateFormat)
	if opts.Prefix != "" {
		fmt.Fprintf(&b, "- **Prefix:** %s\n", opts.Prefix)
	}
	fmt.Fprintf(&b, "- **Destination:** %s\n", opts.Destination)
	if result.TimeWindow != nil {
		fmt.Fprintf(&b, "- **Capture-Time Window:** %s\n", windowLabel(result.TimeWindow))
	}
	b.WriteString("\n")

	if exclStats.TotalExcluded > 0 {
		b.WriteString("## Exclusions\n\n")
		fmt.Fprintf(&b, "- **Individual Photos Excluded:** %d\n", exclStats.ExcludedByPhoto)
		fmt.Fprintf(&b, "- **Photos Excluded by Folder:** %d\n", exclStats.ExcludedByFolder)
		fmt.Fprintf(&b, "- **Folders Excluded:** %d\n", exclStats.ExcludedFolders)

		if keys := excl.ExcludedFolderKeys(); len(keys) > 0 {
			b.WriteString("\n**Excluded Folders:**\n")
			for _, key := range keys {
				fmt.Fprintf(&b, "- %s (%d photos)\n", key, len(index.Items(key)))
			}
		}
		b.WriteString("\n")
	}

	if result.Succeeded > 0 {
		b.WriteString("## Copied Folder Structure\n\n")
		for _, key := range index.Keys() {
			if excl.IsFolderExcluded(key) {
				continue
			}

			var folderItems []types.Item
			for _, item := range index.Items(key) {
				if !excl.IsItemExcluded(item.ID) {
					folderItems = append(folderItems, item)
				}
			}
			if len(folderItems) == 0 {
				continue
			}

			fmt.Fprintf(&b, "### %s\n", key)
			fmt.Fprintf(&b, "%d photos copied\n\n", len(folderItems))

			for i, item := range folderItems {
				if i == maxFilesPerFolder {
					fmt.Fprintf(&b, "- ... and %d more files\n", len(folderItems)-maxFilesPerFolder)
					break
				}
				fmt.Fprintf(&b, "- %s\n", item.FileName)
			}
			b.WriteString("\n")
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range result.Errors {
			if e.Folder != "" {
				fmt.Fprintf(&b, "- **Folder:** %s\n  **Error:** %s\n\n", e.Folder, e.Message)
			} else {
				fmt.Fprintf(&b, "- **File:** %s\n  **Error:** %s\n\n", e.Path, e.Message)
			}
		}
	}

	writeStatistics(&b, included)
	return b.String()
}

func writeStatistics(b *strings.Builder, included []types.Item) {
	stats := Compute(included)

	b.WriteString("## Statistics\n\n")

	fmt.Fprintf(b, "- **Unique Cameras (copied):** %d\n", len(stats.Cameras))
	for _, c := range stats.Cameras {
		fmt.Fprintf(b, "  - %s: %d photos\n", c.Label, c.Count)
	}

	fmt.Fprintf(b, "\n- **Unique Lenses (copied):** %d\n", len(stats.Lenses))
	for _, l := range stats.Lenses {
		fmt.Fprintf(b, "  - %s: %d photos\n", l.Label, l.Count)
	}

	if !stats.EarliestShot.IsZero() {
		fmt.Fprintf(b, "\n- **Date Span:** %s to %s\n",
			stats.EarliestShot.Format("2006-01-02"),
			stats.LatestShot.Format("2006-01-02"))
	}

	if stats.TotalItems > 0 {
		fmt.Fprintf(b, "- **GPS Coverage:** %d of %d photos (%.0f%%)\n",
			stats.WithGPS, stats.TotalItems,
			float64(stats.WithGPS)/float64(stats.TotalItems)*100)
	}

	sizeGB := float64(stats.TotalBytes) / (1024 * 1024 * 1024)
	fmt.Fprintf(b, "\n- **Total Size (copied):** %.2f GB\n", sizeGB)

	b.WriteString("\n**File Size Distribution:**\n")
	for _, bucket := range stats.SizeBuckets {
		fmt.Fprintf(b, "- %s: %d\n", bucket.Label, bucket.Count)
	}
}

func windowLabel(w *types.TimeWindow) string {
	const layout = "2006-01-02"
	switch {
	case !w.Start.IsZero() && !w.End.IsZero():
		return w.Start.Format(layout) + " to " + w.End.Format(layout)
	case !w.Start.IsZero():
		return "from " + w.Start.Format(layout)
	case !w.End.IsZero():
		return "until " + w.End.Format(layout)
	default:
		return "none"
	}
}

// Write saves the report under its fixed name inside destDir and returns
// the written path.
func Write(markdown, destDir string) (string, error) {
	path := filepath.Join(destDir, FileName)
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
