package metadata

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// exifTimeLayout is the calendar date-time layout EXIF tags use.
const exifTimeLayout = "2006:01:02 15:04:05"

type EXIFExtractor struct{}

func NewEXIFExtractor() *EXIFExtractor {
	return &EXIFExtractor{}
}

// Extract decodes the EXIF block of the file at path. It returns an error
// only when the file cannot be opened or carries no parseable EXIF data;
// individual missing tags degrade field by field instead.
func (e *EXIFExtractor) Extract(path string) (types.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Metadata{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return types.Metadata{}, err
	}

	info, err := f.Stat()
	if err != nil {
		return types.Metadata{}, err
	}

	meta := types.Metadata{
		Camera:       CameraLabel(tagString(x, exif.Make), tagString(x, exif.Model)),
		Lens:         LensLabel(tagString(x, exif.LensMake), tagString(x, exif.LensModel)),
		ISO:          tagInt(x, exif.ISOSpeedRatings),
		FocalLength:  tagRational(x, exif.FocalLength),
		Aperture:     tagRational(x, exif.FNumber),
		ExposureTime: tagRational(x, exif.ExposureTime),
		Flash:        tagInt(x, exif.Flash),
		Orientation:  tagInt(x, exif.Orientation),
		PixelWidth:   tagInt(x, exif.PixelXDimension),
		PixelHeight:  tagInt(x, exif.PixelYDimension),
	}

	meta.CaptureTime, meta.Source = captureTime(x, info.ModTime())

	if lat, long, err := x.LatLong(); err == nil {
		meta.GPS = &types.GPSPosition{Latitude: lat, Longitude: long}
	}

	return meta, nil
}

// captureTime resolves the capture timestamp using the tag priority
// DateTimeOriginal, DateTimeDigitized, DateTime, then file modification
// time. Date-based classification depends on this ordering.
func captureTime(x *exif.Exif, modTime time.Time) (time.Time, string) {
	fields := []struct {
		name  exif.FieldName
		label string
	}{
		{exif.DateTimeOriginal, "EXIF:DateTimeOriginal"},
		{exif.DateTimeDigitized, "EXIF:DateTimeDigitized"},
		{exif.DateTime, "EXIF:DateTime"},
	}

	for _, field := range fields {
		tag, err := x.Get(field.name)
		if err != nil {
			continue
		}
		str, err := tag.StringVal()
		if err != nil {
			continue
		}
		if t, err := time.Parse(exifTimeLayout, str); err == nil {
			return t, field.label
		}
	}

	return modTime, "file:mtime"
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	str, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return str
}

func tagInt(x *exif.Exif, name exif.FieldName) *int {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &v
}

func tagRational(x *exif.Exif, name exif.FieldName) *float64 {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	v, ok := rationalValue(tag)
	if !ok {
		return nil
	}
	return &v
}

func rationalValue(tag *tiff.Tag) (float64, bool) {
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}
