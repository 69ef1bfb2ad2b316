// Package types defines core data structures used across FotoFusion modules.
package types

import (
	"time"
)

// UnknownCamera and UnknownLens are the sentinel labels used when metadata
// extraction fails or the relevant tags are absent. Downstream classification
// groups on these strings like any other label.
const (
	UnknownCamera = "Unknown Camera"
	UnknownLens   = "Unknown Lens"
)

// GPSPosition is a decimal-degree coordinate pair extracted from EXIF.
type GPSPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Metadata contains the normalized capture metadata for one photo.
// Numeric fields are nil when the corresponding tag was absent or unreadable.
type Metadata struct {
	// Camera is the combined make/model label, or UnknownCamera.
	Camera string `json:"camera"`
	// Lens is the combined lens make/model label, or UnknownLens.
	Lens string `json:"lens"`
	// CaptureTime is the best-effort capture timestamp. It is always set:
	// when no EXIF date tag parses, it falls back to file modification time.
	CaptureTime time.Time `json:"capture_time"`
	// Source indicates where CaptureTime came from
	// (e.g., "EXIF:DateTimeOriginal", "file:mtime").
	Source string `json:"source"`

	ISO          *int         `json:"iso,omitempty"`
	FocalLength  *float64     `json:"focal_length,omitempty"`
	Aperture     *float64     `json:"aperture,omitempty"`
	ExposureTime *float64     `json:"exposure_time,omitempty"`
	Flash        *int         `json:"flash,omitempty"`
	Orientation  *int         `json:"orientation,omitempty"`
	GPS          *GPSPosition `json:"gps,omitempty"`
	PixelWidth   *int         `json:"pixel_width,omitempty"`
	PixelHeight  *int         `json:"pixel_height,omitempty"`
}

// Item represents one discovered photographic file plus its metadata.
type Item struct {
	// ID is unique and stable for the lifetime of one scan session.
	ID string `json:"id"`
	// SourcePath is the absolute path to the source file. Immutable.
	SourcePath string `json:"source_path"`
	// FileName is the base filename.
	FileName string `json:"file_name"`
	// SizeBytes is the file size at scan time.
	SizeBytes int64 `json:"size_bytes"`
	// Metadata is the extracted capture metadata (possibly degraded).
	Metadata Metadata `json:"metadata"`
}

// StructurePolicy selects the destination folder layout.
type StructurePolicy string

const (
	StructureByDate         StructurePolicy = "date"
	StructureByDateFlat     StructurePolicy = "date-flat"
	StructureByCamera       StructurePolicy = "camera"
	StructureByLens         StructurePolicy = "lens"
	StructureDateCamera     StructurePolicy = "date-camera"
	StructureDateFlatCamera StructurePolicy = "date-flat-camera"
	StructureCameraDate     StructurePolicy = "camera-date"
	StructureCameraDateFlat StructurePolicy = "camera-date-flat"
)

// DateFormat selects how the date component of a folder key is rendered.
type DateFormat string

const (
	DateFormatYMDHier DateFormat = "YYYY/MM/DD"
	DateFormatYMD     DateFormat = "YYYY-MM-DD"
	DateFormatYMHier  DateFormat = "YYYY/MM"
	DateFormatYM      DateFormat = "YYYY-MM"
	DateFormatY       DateFormat = "YYYY"
	DateFormatDMY     DateFormat = "DD-MM-YYYY"
	DateFormatMDY     DateFormat = "MM-DD-YYYY"
	DateFormatMonthY  DateFormat = "Month YYYY"
	DateFormatYMonth  DateFormat = "YYYY/Month"
)

// TimeWindow is an optional inclusive capture-time filter. A nil *TimeWindow
// means no filtering; a zero Start or End leaves that side unbounded.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window (inclusive on both ends).
func (w *TimeWindow) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// CopyAction tags a single per-item copy outcome in progress events.
type CopyAction string

const (
	CopyActionCopying CopyAction = "copying"
	CopyActionSkipped CopyAction = "skipped"
	CopyActionFailed  CopyAction = "failed"
)

// VerifyMode selects how much checking the verifier performs.
type VerifyMode string

const (
	VerifySize     VerifyMode = "size"
	VerifySizeHash VerifyMode = "size+hash"
)

// VerifyPhase tags fine-grained verifier progress events.
type VerifyPhase string

const (
	PhaseExists     VerifyPhase = "exists"
	PhaseSourceHash VerifyPhase = "hash-source"
	PhaseDestHash   VerifyPhase = "hash-dest"
	PhaseVerdict    VerifyPhase = "verdict"
)

// ScanProgress is emitted once per discovered file during a scan.
type ScanProgress struct {
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	Filename string `json:"filename"`
}

// CopyProgress is emitted once per item (copied, skipped, or failed).
type CopyProgress struct {
	Current         int        `json:"current"`
	Total           int        `json:"total"`
	Filename        string     `json:"filename"`
	DestinationPath string     `json:"destination_path"`
	Action          CopyAction `json:"action"`
}

// VerifyProgress is emitted per verification phase transition.
type VerifyProgress struct {
	Current  int         `json:"current"`
	Total    int         `json:"total"`
	Filename string      `json:"filename"`
	Phase    VerifyPhase `json:"phase"`
}

// FileError records one per-file or per-folder failure.
type FileError struct {
	// Path is the source path of the failed file, or empty for folder errors.
	Path string `json:"path,omitempty"`
	// Folder is the folder key when a directory creation failed.
	Folder string `json:"folder,omitempty"`
	// Message is the underlying error text.
	Message string `json:"message"`
}

// SkippedFile describes a file left untouched because the destination
// already existed.
type SkippedFile struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
}

// CopyResult accumulates the outcome of one copy run. Immutable once the
// run ends.
type CopyResult struct {
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	SkippedExists int           `json:"skipped_exists"`
	Errors        []FileError   `json:"errors,omitempty"`
	Skipped       []SkippedFile `json:"skipped,omitempty"`
	FoldersCopied int           `json:"folders_copied"`
	TotalItems    int           `json:"total_items"`
	IncludedItems int           `json:"included_items"`
	ExcludedItems int           `json:"excluded_items"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	// TimeWindow echoes the capture-time filter active during the run.
	TimeWindow *TimeWindow `json:"time_window,omitempty"`
}

// VerificationResult accumulates the outcome of one verification run.
type VerificationResult struct {
	Verified     int         `json:"verified"`
	Failed       int         `json:"failed"`
	Missing      int         `json:"missing"`
	SizeMatch    int         `json:"size_match"`
	SizeMismatch int         `json:"size_mismatch"`
	HashMatch    int         `json:"hash_match"`
	HashMismatch int         `json:"hash_mismatch"`
	Errors       []FileError `json:"errors,omitempty"`
	StartTime    time.Time   `json:"start_time"`
	EndTime      time.Time   `json:"end_time"`
}

// ExclusionStats summarizes the exclusion overlay for rendering.
type ExclusionStats struct {
	Total            int `json:"total"`
	Included         int `json:"included"`
	ExcludedByPhoto  int `json:"excluded_by_photo"`
	ExcludedByFolder int `json:"excluded_by_folder"`
	TotalExcluded    int `json:"total_excluded"`
	ExcludedFolders  int `json:"excluded_folders"`
}

// Preset is a saved organization setup. ID, CreatedAt, LastUsed, and
// ImportedAt are assigned by the preset store.
type Preset struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Structure        StructurePolicy `json:"folder_structure"`
	DateFormat       DateFormat      `json:"date_format"`
	Prefix           string          `json:"folder_prefix,omitempty"`
	PreserveOriginal bool            `json:"preserve_original"`
	Destination      string          `json:"destination,omitempty"`
	WindowStart      string          `json:"window_start,omitempty"`
	WindowEnd        string          `json:"window_end,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	LastUsed         time.Time       `json:"last_used,omitempty"`
	ImportedAt       time.Time       `json:"imported_at,omitempty"`
}
