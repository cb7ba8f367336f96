package converter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/zotero2wxr/internal/types"
)

var (
	// 2019, 2019-05, 2019-05-01, 2019/05/01, optionally followed by a time.
	isoDate = regexp.MustCompile(`^(\d{4})(?:[-/.](\d{1,2})(?:[-/.](\d{1,2}))?)?(?:[ T].*)?$`)

	// 05/01/2019
	usDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

	// May 1, 2019
	monthDayYear = regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`)

	// 1 May 2019
	dayMonthYear = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)\.?,?\s+(\d{4})$`)

	// May 2019
	monthYear = regexp.MustCompile(`^([A-Za-z]+)\.?,?\s+(\d{4})$`)

	anyYear = regexp.MustCompile(`\b(\d{4})\b`)
)

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// ParseDate parses the date formats Zotero and spreadsheet programs produce.
// Components that cannot be read, or that are out of range, stay unset.
// Text with no recognizable date returns the zero PartialDate.
func ParseDate(s string) types.PartialDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.PartialDate{}
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		return buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := usDate.FindStringSubmatch(s); m != nil {
		return buildDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
	}
	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			return buildDate(atoi(m[3]), month, atoi(m[2]))
		}
	}
	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			return buildDate(atoi(m[3]), month, atoi(m[1]))
		}
	}
	if m := monthYear.FindStringSubmatch(s); m != nil {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			return buildDate(atoi(m[2]), month, 0)
		}
	}
	if m := anyYear.FindStringSubmatch(s); m != nil {
		return buildDate(atoi(m[1]), 0, 0)
	}
	return types.PartialDate{}
}

// buildDate drops any component that does not fit: a bad month also drops
// the day.
func buildDate(year, month, day int) types.PartialDate {
	if year <= 0 {
		return types.PartialDate{}
	}
	d := types.PartialDate{Year: year}
	if month < 1 || month > 12 {
		return d
	}
	d.Month = month
	if day >= 1 && day <= daysIn(year, month) {
		d.Day = day
	}
	return d
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
