// Package filename extracts capture timestamps encoded in image filenames.
package filename

import (
	"regexp"
	"strconv"
	"time"
)

// ExifLayout is the EXIF datetime layout: colon-separated, 24-hour, no zone.
const ExifLayout = "2006:01:02 15:04:05"

// yyyyMMddHHmmss in ASCII digits. Leftmost match only; a longer digit run yields its first 14 digits.
var timestampRE = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})`)

// Parse extracts the first 14-digit yyyyMMddHHmmss run from name.
// It reports false when no run exists or when the run is not a real calendar date/time.
func Parse(name string) (time.Time, bool) {
	m := timestampRE.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}

	var f [6]int
	for i := range f {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, false
		}
		f[i] = v
	}
	year, month, day, hour, minute, second := f[0], f[1], f[2], f[3], f[4], f[5]

	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	// Naive wall-clock value; UTC avoids DST gaps shifting the hour.
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject anything that moved.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}

	return t, true
}

// Format renders t as an EXIF datetime string.
func Format(t time.Time) string {
	return t.Format(ExifLayout)
}
