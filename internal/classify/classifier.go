package classify

import (
	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// KeyFor computes the destination folder key for one item. It is a pure
// function of (item metadata, policy, prefix, dateFormat): two items with
// identical normalized metadata always map to the same key.
func KeyFor(item types.Item, policy types.StructurePolicy, prefix string, format types.DateFormat) FolderKey {
	t := item.Metadata.CaptureTime
	camera := Sanitize(item.Metadata.Camera)
	lens := Sanitize(item.Metadata.Lens)

	var key FolderKey
	switch policy {
	case types.StructureByDate:
		key = NewFolderKey(dateSegments(t, format)...)
	case types.StructureByDateFlat:
		key = NewFolderKey(dateFlat(t, format))
	case types.StructureByCamera:
		key = NewFolderKey(camera)
	case types.StructureByLens:
		key = NewFolderKey(lens)
	case types.StructureDateCamera:
		key = NewFolderKey(append(dateSegments(t, format), camera)...)
	case types.StructureDateFlatCamera:
		key = NewFolderKey(dateFlat(t, format), camera)
	case types.StructureCameraDate:
		key = NewFolderKey(append([]string{camera}, dateSegments(t, format)...)...)
	case types.StructureCameraDateFlat:
		key = NewFolderKey(camera, dateFlat(t, format))
	default:
		key = NewFolderKey(dateSegments(t, format)...)
	}

	return key.WithPrefix(prefix)
}

// Classify builds the folder index for items under the given policy.
// Items outside the capture-time window are excluded from the index
// entirely; this is a hard filter, distinct from the exclusion overlay.
func Classify(items []types.Item, policy types.StructurePolicy, prefix string, format types.DateFormat, window *types.TimeWindow) *Index {
	index := NewIndex()
	for _, item := range items {
		if !window.Contains(item.Metadata.CaptureTime) {
			continue
		}
		index.Add(KeyFor(item, policy, prefix, format), item)
	}
	return index
}
