package classify

import (
	"fmt"
	"time"

	"github.com/wjakew/fotofusion-desktop/pkg/types"
)

// dateSegments renders the hierarchical form of a date component. Formats
// with '/' in their key produce nested segments (year, then year-month,
// then year-month-day); the rest collapse to a single segment.
func dateSegments(t time.Time, format types.DateFormat) []string {
	year := fmt.Sprintf("%04d", t.Year())
	month := fmt.Sprintf("%02d", int(t.Month()))
	day := fmt.Sprintf("%02d", t.Day())
	monthName := t.Month().String()

	switch format {
	case types.DateFormatYMDHier:
		return []string{year, year + "-" + month, year + "-" + month + "-" + day}
	case types.DateFormatYMD:
		return []string{year + "-" + month + "-" + day}
	case types.DateFormatYMHier:
		return []string{year, year + "-" + month}
	case types.DateFormatYM:
		return []string{year + "-" + month}
	case types.DateFormatY:
		return []string{year}
	case types.DateFormatDMY:
		return []string{day + "-" + month + "-" + year}
	case types.DateFormatMDY:
		return []string{month + "-" + day + "-" + year}
	case types.DateFormatMonthY:
		return []string{monthName + " " + year}
	case types.DateFormatYMonth:
		return []string{year, monthName}
	default:
		return []string{year, year + "-" + month, year + "-" + month + "-" + day}
	}
}

// dateFlat renders the full date component as a single segment regardless of
// format. Hierarchical formats flatten with '-' joins.
func dateFlat(t time.Time, format types.DateFormat) string {
	year := fmt.Sprintf("%04d", t.Year())
	month := fmt.Sprintf("%02d", int(t.Month()))
	day := fmt.Sprintf("%02d", t.Day())
	monthName := t.Month().String()

	switch format {
	case types.DateFormatYMDHier, types.DateFormatYMD:
		return year + "-" + month + "-" + day
	case types.DateFormatYMHier, types.DateFormatYM:
		return year + "-" + month
	case types.DateFormatY:
		return year
	case types.DateFormatDMY:
		return day + "-" + month + "-" + year
	case types.DateFormatMDY:
		return month + "-" + day + "-" + year
	case types.DateFormatMonthY:
		return monthName + " " + year
	case types.DateFormatYMonth:
		return year + "-" + monthName
	default:
		return year + "-" + month + "-" + day
	}
}
