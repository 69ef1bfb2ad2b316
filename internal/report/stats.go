// Package report derives aggregate statistics from the catalog and renders
// the markdown copy report written into the destination root.
package report

import (
	"sort"
	"time"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// LabelCount is one entry of an equipment distribution.
type LabelCount struct {
	Label string
	Count int
}

// SizeBucket is one bucket of the file-size distribution.
type SizeBucket struct {
	Label string
	Max   int64 // upper bound in bytes, 0 means unbounded
	Count int
}

// Stats are the aggregate facts derived from a set of items.
type Stats struct {
	Cameras      []LabelCount
	Lenses       []LabelCount
	EarliestShot time.Time
	LatestShot   time.Time
	WithGPS      int
	TotalItems   int
	TotalBytes   int64
	SizeBuckets  []SizeBucket
}

func newSizeBuckets() []SizeBucket {
	const mb = int64(1024 * 1024)
	return []SizeBucket{
		{Label: "< 1 MB", Max: 1 * mb},
		{Label: "1-5 MB", Max: 5 * mb},
		{Label: "5-15 MB", Max: 15 * mb},
		{Label: "15-50 MB", Max: 50 * mb},
		{Label: "> 50 MB", Max: 0},
	}
}

// Compute derives statistics over the given items.
func Compute(items []types.Item) Stats {
	stats := Stats{
		TotalItems:  len(items),
		SizeBuckets: newSizeBuckets(),
	}

	cameras := make(map[string]int)
	lenses := make(map[string]int)

	for _, item := range items {
		cameras[item.Metadata.Camera]++
		lenses[item.Metadata.Lens]++
		stats.TotalBytes += item.SizeBytes

		if item.Metadata.GPS != nil {
			stats.WithGPS++
		}

		t := item.Metadata.CaptureTime
		if stats.EarliestShot.IsZero() || t.Before(stats.EarliestShot) {
			stats.EarliestShot = t
		}
		if stats.LatestShot.IsZero() || t.After(stats.LatestShot) {
			stats.LatestShot = t
		}

		for i := range stats.SizeBuckets {
			bucket := &stats.SizeBuckets[i]
			if bucket.Max == 0 || item.SizeBytes < bucket.Max {
				bucket.Count++
				break
			}
		}
	}

	stats.Cameras = sortedCounts(cameras)
	stats.Lenses = sortedCounts(lenses)
	return stats
}

// sortedCounts orders a distribution by descending count, then label, so
// report output is deterministic.
func sortedCounts(counts map[string]int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
